package domain

// JudgeVerdict is the normalized outcome of a judge evaluation: a score in
// [0,1] plus the judge's stated rationale, attributed to the judge
// configuration slot that produced it.
type JudgeVerdict struct {
	// MetricKey names the judge configuration slot the verdict belongs to.
	MetricKey string `json:"metricKey"`

	// Score is the normalized score, always within [0,1] for raw scores
	// in [0,100].
	Score float64 `json:"score"`

	// Reasoning is the judge's explanation for the score, possibly empty.
	Reasoning string `json:"reasoning"`
}

// NormalizeScore maps a raw judge score onto the [0,1] range. Raw values
// above 1 are treated as percentages and divided by 100; everything else
// passes through unchanged.
func NormalizeScore(raw float64) float64 {
	if raw > 1 {
		return raw / 100
	}
	return raw
}
