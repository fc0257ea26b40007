package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series too short")

// FFT returns the discrete Fourier transform of a real series of any
// non-zero length.
func FFT(data []float64) ([]complex128, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrShortSeries)
	}
	return fft.FFTReal(data), nil
}

// PowerSpectrum returns the magnitudes of the first half of the transform.
func PowerSpectrum(data []float64) ([]float64, error) {
	f, err := FFT(data)
	if err != nil {
		return nil, err
	}
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps, nil
}

// Truncate returns the longest power-of-two prefix of data.
func Truncate(data []float64) []float64 {
	if len(data) == 0 {
		return data
	}
	return data[:1<<(bits.Len(uint(len(data)))-1)]
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of a series sampled every dt seconds. The mean is removed and
// the series truncated to a power of two first, so a tone at a multiple of
// 1/(n·dt) lands on a single bin.
func DominantFrequency(series []float64, dt float64) (float64, error) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return 0, fmt.Errorf("analysis: sample interval must be positive, got %v", dt)
	}
	data := Truncate(series)
	if len(data) < 4 {
		return 0, fmt.Errorf("%w: need at least 4 samples, got %d", ErrShortSeries, len(series))
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps, err := PowerSpectrum(centered)
	if err != nil {
		return 0, err
	}
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	return float64(peak) / (float64(len(data)) * dt), nil
}
