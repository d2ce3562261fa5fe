package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"orthosync/internal/models"
	"orthosync/pkg/axismap"
	"orthosync/pkg/roi"
)

// Viewer gives exporters read access to voxel data through the same view
// and ROI geometry the controller works with.
type Viewer struct {
	// volumeData holds intensities in [0,1], indexed z*width*height + y*width + x
	volumeData []float64

	// size is the number of voxels along X, Y and Z
	size [3]int

	// spacing is the physical voxel size in mm
	spacing [3]float64
}

// RegionStats summarizes the intensities inside an ROI
type RegionStats struct {
	Voxels int     `yaml:"voxels"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stdDev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`

	// VolumeMM3 is the physical volume of the region in cubic millimetres
	VolumeMM3 float64 `yaml:"volumeMM3"`
}

// NewViewer creates a viewer over volumeData laid out as described by vol
func NewViewer(volumeData []float64, vol models.Volume) (*Viewer, error) {
	want := vol.SizeX * vol.SizeY * vol.SizeZ
	if len(volumeData) != want {
		return nil, fmt.Errorf("volume data has %d voxels, expected %dx%dx%d=%d",
			len(volumeData), vol.SizeX, vol.SizeY, vol.SizeZ, want)
	}
	return &Viewer{
		volumeData: volumeData,
		size:       vol.Size(),
		spacing:    vol.Spacing(),
	}, nil
}

func (v *Viewer) index(voxel [3]int) int {
	return voxel[models.Z]*v.size[models.X]*v.size[models.Y] + voxel[models.Y]*v.size[models.X] + voxel[models.X]
}

// ExtractSlice extracts the 2D image shown by view at the given slice
func (v *Viewer) ExtractSlice(view models.ViewKind, position int) (image.Image, error) {
	if !view.Valid() {
		return nil, fmt.Errorf("invalid view: %d", int(view))
	}
	width, height, slices := axismap.LocalExtents(view, v.size)
	if position < 0 || position >= slices {
		return nil, fmt.Errorf("position %d outside [0, %d) for %s view", position, slices, view)
	}

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			voxel := axismap.Lift(view, models.Point2D{H: x, V: y}, position)
			value := uint16(math.Max(0, math.Min(65535, v.volumeData[v.index(voxel)]*65535)))
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}

	return img, nil
}

func (v *Viewer) checkBounds(b roi.Bounds) error {
	lo, hi := b.Min(), b.Max()
	for _, axis := range models.Axes {
		if lo[axis] < 0 || hi[axis] >= v.size[axis] || lo[axis] > hi[axis] {
			return fmt.Errorf("region %s extends beyond volume boundaries", b)
		}
	}
	return nil
}

// ExtractRegion copies the voxels inside b, both ends inclusive, into a new
// array laid out like the source volume. It also returns the region size.
func (v *Viewer) ExtractRegion(b roi.Bounds) ([]float64, [3]int, error) {
	if err := v.checkBounds(b); err != nil {
		return nil, [3]int{}, err
	}

	size := b.Size()
	region := make([]float64, 0, size[0]*size[1]*size[2])
	for z := b.ZMin; z <= b.ZMax; z++ {
		for y := b.YMin; y <= b.YMax; y++ {
			start := v.index([3]int{b.XMin, y, z})
			region = append(region, v.volumeData[start:start+size[models.X]]...)
		}
	}

	return region, size, nil
}

// RegionStats computes intensity statistics for the voxels inside b
func (v *Viewer) RegionStats(b roi.Bounds) (RegionStats, error) {
	region, size, err := v.ExtractRegion(b)
	if err != nil {
		return RegionStats{}, err
	}

	mean, std := stat.MeanStdDev(region, nil)
	voxelVolume := v.spacing[models.X] * v.spacing[models.Y] * v.spacing[models.Z]
	return RegionStats{
		Voxels:    len(region),
		Mean:      mean,
		StdDev:    std,
		Min:       floats.Min(region),
		Max:       floats.Max(region),
		VolumeMM3: float64(size[0]*size[1]*size[2]) * voxelVolume,
	}, nil
}

// SaveSlice saves an extracted slice as a JPEG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves the slices from..to (inclusive) of view
func (v *Viewer) SaveSliceSequence(view models.ViewKind, from, to int, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for pos := from; pos <= to; pos++ {
		img, err := v.ExtractSlice(view, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", view, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// SaveROISlices writes, for each view, the slices crossing b
func (v *Viewer) SaveROISlices(b roi.Bounds, outputDir string) error {
	if err := v.checkBounds(b); err != nil {
		return err
	}
	lo, hi := b.Min(), b.Max()
	for _, view := range models.Views {
		depth := axismap.For(view).Depth
		if err := v.SaveSliceSequence(view, lo[depth], hi[depth], filepath.Join(outputDir, view.String())); err != nil {
			return fmt.Errorf("saving %s slices: %w", view, err)
		}
	}
	return nil
}
