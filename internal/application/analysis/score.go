package analysis

import "github.com/veloedu/risk-radar/internal/domain/diagnosis"

// ══════════════════════════════════════════════════════════════════════════════
// DROPOUT-RISK SCORE
// Deterministic banded sum of grade drop and attendance shortfall, clamped
// to [0,100]. The bands are calibrated against the reference case: a 1.5
// point drop with 66.7% presence scores 70. Undefined metrics contribute
// nothing - missing evidence is not risk.
// ══════════════════════════════════════════════════════════════════════════════

// RiskScore computes the dropout-risk score from a metric snapshot.
// It is monotone: a larger drop never lowers the score, and neither does
// lower presence.
func RiskScore(m diagnosis.Snapshot) int {
	score := dropBand(m.Performance.Drop) + presenceBand(m.Engagement.PresencePct)
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// dropBand maps the rounded grade drop to its risk contribution.
func dropBand(drop *float64) int {
	if drop == nil {
		return 0
	}
	d := round1(*drop)
	switch {
	case d > 3.0:
		return 50
	case d > 2.0:
		return 40
	case d >= 1.5:
		return 30
	case d > 1.0:
		return 20
	default:
		return 0
	}
}

// presenceBand maps the presence percentage to its risk contribution.
func presenceBand(pct *float64) int {
	if pct == nil {
		return 0
	}
	switch {
	case *pct < 50:
		return 50
	case *pct < 70:
		return 40
	case *pct < 85:
		return 20
	default:
		return 0
	}
}
