package refl

import (
	"fmt"
	"io"
	"sort"
)

// Dataset holds one simulated (or measured) reflectivity curve as four
// parallel slices: momentum transfer, reflectivity, reflectivity uncertainty
// and incident neutron counts. A Dataset produced by a Simulator contains no
// zero-count points and is sorted ascending by Q; it is never mutated after
// being returned.
type Dataset struct {
	Q      []float64
	R      []float64
	DR     []float64
	Counts []float64
}

// Len returns the number of points in the dataset.
func (d Dataset) Len() int { return len(d.Q) }

// WriteCSV writes the dataset as comma-delimited rows (q, r, dr, counts)
// with a header row.
func (d Dataset) WriteCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "q,r,dr,counts"); err != nil {
		return err
	}
	for i := 0; i < d.Len(); i++ {
		_, err := fmt.Fprintf(w, "%.8g,%.8g,%.8g,%.8g\n", d.Q[i], d.R[i], d.DR[i], d.Counts[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// mergeRuns concatenates per-condition results into one Dataset, dropping
// points with zero incident counts and sorting the remainder ascending by Q.
func mergeRuns(runs []Dataset) Dataset {
	total := 0
	for _, run := range runs {
		total += run.Len()
	}
	merged := Dataset{
		Q:      make([]float64, 0, total),
		R:      make([]float64, 0, total),
		DR:     make([]float64, 0, total),
		Counts: make([]float64, 0, total),
	}
	for _, run := range runs {
		for i := 0; i < run.Len(); i++ {
			if run.Counts[i] == 0 {
				continue
			}
			merged.Q = append(merged.Q, run.Q[i])
			merged.R = append(merged.R, run.R[i])
			merged.DR = append(merged.DR, run.DR[i])
			merged.Counts = append(merged.Counts, run.Counts[i])
		}
	}

	order := make([]int, merged.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return merged.Q[order[a]] < merged.Q[order[b]]
	})

	sorted := Dataset{
		Q:      make([]float64, merged.Len()),
		R:      make([]float64, merged.Len()),
		DR:     make([]float64, merged.Len()),
		Counts: make([]float64, merged.Len()),
	}
	for dst, src := range order {
		sorted.Q[dst] = merged.Q[src]
		sorted.R[dst] = merged.R[src]
		sorted.DR[dst] = merged.DR[src]
		sorted.Counts[dst] = merged.Counts[src]
	}
	return sorted
}
