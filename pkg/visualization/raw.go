package visualization

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"orthosync/internal/models"
)

// LoadRawVolume reads little-endian float32 voxels in z, y, x order and
// normalizes them to [0,1].
func LoadRawVolume(path string, vol models.Volume) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadRawVolume(file, vol)
}

// ReadRawVolume is LoadRawVolume for an arbitrary reader
func ReadRawVolume(r io.Reader, vol models.Volume) ([]float64, error) {
	n := vol.SizeX * vol.SizeY * vol.SizeZ
	raw := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("reading %d voxels: %w", n, err)
	}

	data := make([]float64, n)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, f := range raw {
		data[i] = float64(f)
		lo = math.Min(lo, data[i])
		hi = math.Max(hi, data[i])
	}
	if hi > lo {
		for i := range data {
			data[i] = (data[i] - lo) / (hi - lo)
		}
	}
	return data, nil
}
