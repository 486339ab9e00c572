// internal/pricing/breakdown.go
package pricing

// BreakdownRow is one line of the per-dimension price explanation.
type BreakdownRow struct {
	Dimension     Dimension `json:"dimension"`
	Score         int       `json:"score"`
	WeightPercent int       `json:"weightPercent"`
	Contribution  float64   `json:"contribution"`
}

// Breakdown lists every dimension with its weighted contribution to the total.
// Contributions add up to TotalWeightedScore.
func (r Result) Breakdown() []BreakdownRow {
	scores := r.Scores()
	rows := make([]BreakdownRow, 0, len(weights))
	for _, w := range weights {
		score := scores.Of(w.dimension)
		rows = append(rows, BreakdownRow{
			Dimension:     w.dimension,
			Score:         score,
			WeightPercent: w.percent,
			Contribution:  float64(score*w.percent) / 100,
		})
	}
	return rows
}
