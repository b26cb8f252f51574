package treetune

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Report prints the nTop best-ranked configurations of results. Every
// configuration sharing a rank is printed, so ties may yield more than nTop
// entries; ranks skipped by a tie print nothing.
//
// Output format, per configuration:
//
//	Model with rank: 1
//	Mean validation score: 0.853 (std: 0.004)
//	Parameters: {criterion: gini, max_depth: 8}
func Report(w io.Writer, results *CVResults, nTop int) error {
	if len(results.RankTestScore) != results.Len() {
		return fmt.Errorf("%w: %d ranks for %d configurations", ErrShapeMismatch, len(results.RankTestScore), results.Len())
	}

	for rank := 1; rank <= nTop; rank++ {
		for i, r := range results.RankTestScore {
			if r != rank {
				continue
			}

			if _, err := fmt.Fprintf(
				w,
				"Model with rank: %d\nMean validation score: %.3f (std: %.3f)\nParameters: %s\n\n",
				rank,
				results.MeanTestScore[i],
				results.StdTestScore[i],
				results.Params[i],
			); err != nil {
				return err
			}
		}
	}

	return nil
}

// NamedResult pairs a search result with the held-out score of its refitted
// best estimator.
type NamedResult struct {
	Name            string
	Result          *SearchResult
	ValidationScore float64
}

// Summary prints one row per strategy: candidates evaluated, best CV
// score, validation score, elapsed time and best parameters.
func Summary(w io.Writer, rows []NamedResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "strategy\tcandidates\tbest cv score\tvalidation score\telapsed\tbest params")

	for _, row := range rows {
		fmt.Fprintf(
			tw,
			"%s\t%d\t%.4f\t%.4f\t%s\t%s\n",
			row.Name,
			row.Result.CVResults.Len(),
			row.Result.BestScore,
			row.ValidationScore,
			row.Result.Elapsed.Round(time.Millisecond),
			row.Result.BestParams,
		)
	}

	return tw.Flush()
}
