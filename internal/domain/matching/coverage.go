package matching

import "math"

// Coverage is the share of required items present in have. Both arguments
// are normalized sets. No requirement means full coverage.
func Coverage(have, required []string) float64 {
	if len(required) == 0 {
		return 1.0
	}
	return float64(len(required)-len(Difference(required, have))) / float64(len(required))
}

// Difference returns the items of a that are absent from b, in a's order.
func Difference(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	out := make([]string, 0)
	for _, s := range a {
		if _, ok := in[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}
