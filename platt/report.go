package platt

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/tuneinsight/dirichlet/arb"
)

// Summary describes the log2 radii of the balls of a multi-evaluation.
// Exact balls and balls with an infinite radius are counted apart.
type Summary struct {
	Min, Mean, Median, Max float64
	Exact, Infinite        int
}

// String implements fmt.Stringer.
func (s Summary) String() string {
	return fmt.Sprintf("log2(rad): min %.2f, mean %.2f, median %.2f, max %.2f (%d exact, %d infinite)",
		s.Min, s.Mean, s.Median, s.Max, s.Exact, s.Infinite)
}

// Report summarizes the precision of out and logs the summary at Debug level.
// An error is returned when no ball of out has a finite nonzero radius.
func Report(out []arb.Real) (s Summary, err error) {
	values := make(stats.Float64Data, 0, len(out))
	for i := range out {
		r := out[i].Rad()
		switch {
		case r.IsZero():
			s.Exact++
		case r.IsInf():
			s.Infinite++
		default:
			values = append(values, r.Log2())
		}
	}

	if len(values) == 0 {
		return s, fmt.Errorf("cannot Report: no ball with a finite nonzero radius among %d", len(out))
	}

	if s.Min, err = stats.Min(values); err != nil {
		return s, fmt.Errorf("cannot Report: %w", err)
	}
	if s.Mean, err = stats.Mean(values); err != nil {
		return s, fmt.Errorf("cannot Report: %w", err)
	}
	if s.Median, err = stats.Median(values); err != nil {
		return s, fmt.Errorf("cannot Report: %w", err)
	}
	if s.Max, err = stats.Max(values); err != nil {
		return s, fmt.Errorf("cannot Report: %w", err)
	}

	log.Debugf("%d values, %s", len(out), s)
	return s, nil
}
