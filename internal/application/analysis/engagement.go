package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT ANALYZER
// The attendance specialist: presence percentage and where the absences
// concentrate. Pure function over the attendance events.
// ══════════════════════════════════════════════════════════════════════════════

// EngagementAnalyzer computes the attendance-side metrics and report.
type EngagementAnalyzer struct{}

// NewEngagementAnalyzer creates the analyzer.
func NewEngagementAnalyzer() *EngagementAnalyzer {
	return &EngagementAnalyzer{}
}

// Name identifies the stage.
func (a *EngagementAnalyzer) Name() string { return "Analisador de Engajamento" }

var _ Agent[*academic.StudentRecord, diagnosis.EngagementReport] = (*EngagementAnalyzer)(nil)

// Analyze produces the engagement report. Zero attendance events make the
// presence percentage undefined (nil) and the report degraded; division
// by zero cannot happen.
func (a *EngagementAnalyzer) Analyze(_ context.Context, record *academic.StudentRecord) (diagnosis.EngagementReport, error) {
	absences := record.AbsencesBySubject()

	metrics := diagnosis.EngagementMetrics{
		AbsencesBySubject: absences,
		Concentration:     concentration(absences),
	}
	for _, n := range absences {
		metrics.AbsenceTotal += n
	}

	status := diagnosis.StatusOK
	if total := len(record.Attendance); total > 0 {
		pct := float64(total-metrics.AbsenceTotal) / float64(total) * 100
		metrics.PresencePct = &pct
	} else {
		status = diagnosis.StatusDegraded
	}

	return diagnosis.EngagementReport{
		Agent:   a.Name(),
		Status:  status,
		Summary: a.summary(metrics),
		Metrics: metrics,
	}, nil
}

func (a *EngagementAnalyzer) summary(m diagnosis.EngagementMetrics) string {
	if m.PresencePct == nil {
		return "Nenhum evento de frequência registrado para o aluno."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Frequência de presença: %.1f%%. ", *m.PresencePct)

	if m.AbsenceTotal > 0 {
		fmt.Fprintf(&b, "Total de ausências identificadas: %d. ", m.AbsenceTotal)
		fmt.Fprintf(&b, "Maior concentração de ausências em: %s.", m.Concentration)
	} else {
		b.WriteString("Nenhuma ausência registrada.")
	}

	return b.String()
}

// concentration picks the subject with the most absences. Ties break
// toward the lexicographically smallest subject so the result is
// deterministic regardless of map iteration order.
func concentration(absences map[academic.SubjectID]int) academic.SubjectID {
	var best academic.SubjectID
	bestCount := 0
	for subject, n := range absences {
		if n > bestCount || (n == bestCount && n > 0 && subject < best) {
			best = subject
			bestCount = n
		}
	}
	return best
}
