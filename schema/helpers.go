package schema

import (
	"fmt"
	"sort"
)

// FitLabel returns a human-readable label for a fit classification.
func FitLabel(fit FitClass) string {
	switch fit {
	case Overfit:
		return "Overfitting detected"
	case Underfit:
		return "Underfitting detected"
	case WellFit:
		return "Well fitted"
	default:
		return "Unknown"
	}
}

// SortedModelNames returns the model names of a result map in a stable order.
func SortedModelNames(results map[string]ModelResult) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatClusterSizes renders cluster sizes as "c0=12, c1=34, ...".
func FormatClusterSizes(sizes []int) string {
	out := ""
	for i, n := range sizes {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("c%d=%d", i, n)
	}
	return out
}
