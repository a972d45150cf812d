package l4peaks

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Params controls peak selection. MinDistance is in samples; values below 1
// are treated as 1. ProminenceFraction scales the signal range into the
// prominence threshold.
type Params struct {
	MinDistance        int
	ProminenceFraction float64
}

// Peak is a retained local maximum of the signal.
type Peak struct {
	Index      int
	Height     float64
	Prominence float64
}

// Segment is one valley-to-valley partition of the signal around a peak.
// Start and Stop are closed indices; consecutive segments share the valley.
type Segment struct {
	Peak
	Start int
	Stop  int
}

// Threshold returns the minimum prominence a peak must reach:
// fraction·(max−min)+min of the signal.
func Threshold(signal []float64, fraction float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	lo, hi := floats.Min(signal), floats.Max(signal)
	return fraction*(hi-lo) + lo
}

// LocalMaxima returns the indices of strict local maxima in ascending order.
// A plateau is reported at its first index. Samples at either end of the
// signal are never maxima.
func LocalMaxima(signal []float64) []int {
	var out []int
	n := len(signal)
	i := 1
	for i < n-1 {
		if signal[i] <= signal[i-1] {
			i++
			continue
		}
		j := i
		for j+1 < n-1 && signal[j+1] == signal[i] {
			j++
		}
		if signal[j+1] < signal[i] {
			out = append(out, i)
		}
		i = j + 1
	}
	return out
}

// SelectByDistance keeps the highest peaks such that no two retained peaks
// are closer than minDistance samples. Ties go to the earlier index. The
// result is sorted by index.
func SelectByDistance(signal []float64, peaks []int, minDistance int) []int {
	if minDistance <= 1 || len(peaks) < 2 {
		return slices.Clone(peaks)
	}
	order := slices.Clone(peaks)
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(signal[b], signal[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	var kept []int
	for _, p := range order {
		ok := true
		for _, k := range kept {
			if abs(p-k) < minDistance {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, p)
		}
	}
	slices.Sort(kept)
	return kept
}

// Prominence returns the height of signal[peak] above the higher of its two
// bases. Each base is the minimum reached while walking away from the peak
// until a strictly higher sample or the signal boundary.
func Prominence(signal []float64, peak int) float64 {
	h := signal[peak]
	left := h
	for i := peak - 1; i >= 0 && signal[i] <= h; i-- {
		left = min(left, signal[i])
	}
	right := h
	for i := peak + 1; i < len(signal) && signal[i] <= h; i++ {
		right = min(right, signal[i])
	}
	return h - max(left, right)
}

// Find returns the peaks that survive distance suppression and the
// prominence threshold, in ascending index order.
func Find(signal []float64, p Params) []Peak {
	candidates := SelectByDistance(signal, LocalMaxima(signal), p.MinDistance)
	threshold := Threshold(signal, p.ProminenceFraction)

	var out []Peak
	for _, idx := range candidates {
		prom := Prominence(signal, idx)
		if prom <= 0 || prom < threshold {
			continue
		}
		out = append(out, Peak{Index: idx, Height: signal[idx], Prominence: prom})
	}
	return out
}

// Segments partitions the signal valley-to-valley around the given peaks,
// which must be sorted by index. The first segment starts at 0 and the last
// stops at len(signal)-1. No peaks yield no segments.
func Segments(signal []float64, peaks []Peak) []Segment {
	if len(peaks) == 0 {
		return nil
	}
	out := make([]Segment, len(peaks))
	start := 0
	for i, pk := range peaks {
		stop := len(signal) - 1
		if i+1 < len(peaks) {
			stop = valley(signal, pk.Index, peaks[i+1].Index)
		}
		out[i] = Segment{Peak: pk, Start: start, Stop: stop}
		start = stop
	}
	return out
}

// Partition runs Find followed by Segments.
func Partition(signal []float64, p Params) []Segment {
	return Segments(signal, Find(signal, p))
}

// valley returns the index of the first minimum strictly between a and b.
func valley(signal []float64, a, b int) int {
	if b-a < 2 {
		return a
	}
	return a + 1 + floats.MinIdx(signal[a+1:b])
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
