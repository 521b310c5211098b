package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"panmixia/internal/model"
)

// Summarize condenses a generations × population score history into one
// diagnostics row per generation. Generations are numbered from 1.
func Summarize(history [][]float64) []model.GenerationDiagnostics {
	out := make([]model.GenerationDiagnostics, 0, len(history))
	for g, row := range history {
		if len(row) == 0 {
			out = append(out, model.GenerationDiagnostics{Generation: g + 1})
			continue
		}
		best := row[0]
		worst := row[0]
		total := 0.0
		for _, score := range row {
			total += score
			if score < best {
				best = score
			}
			if score > worst {
				worst = score
			}
		}
		out = append(out, model.GenerationDiagnostics{
			Generation: g + 1,
			BestScore:  best,
			MeanScore:  total / float64(len(row)),
			WorstScore: worst,
		})
	}
	return out
}

// WriteHistoryCSV writes one diagnostics row per generation for offline
// convergence analysis.
func WriteHistoryCSV(w io.Writer, history [][]float64) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"generation", "best", "mean", "worst"}); err != nil {
		return err
	}
	for _, diag := range Summarize(history) {
		record := []string{
			strconv.Itoa(diag.Generation),
			strconv.FormatFloat(diag.BestScore, 'g', -1, 64),
			strconv.FormatFloat(diag.MeanScore, 'g', -1, 64),
			strconv.FormatFloat(diag.WorstScore, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write history csv: %w", err)
	}
	return nil
}
