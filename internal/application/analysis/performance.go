package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERFORMANCE ANALYZER
// The grade specialist: term means, the signed drop between them, and the
// subjects in critical territory. Pure function over the grade entries.
// ══════════════════════════════════════════════════════════════════════════════

// PerformanceAnalyzer computes the grade-side metrics and report.
type PerformanceAnalyzer struct {
	thresholds Thresholds
}

// NewPerformanceAnalyzer creates the analyzer with the given thresholds.
func NewPerformanceAnalyzer(thresholds Thresholds) *PerformanceAnalyzer {
	return &PerformanceAnalyzer{thresholds: thresholds}
}

// Name identifies the stage.
func (a *PerformanceAnalyzer) Name() string { return "Analisador de Desempenho" }

var _ Agent[*academic.StudentRecord, diagnosis.PerformanceReport] = (*PerformanceAnalyzer)(nil)

// Analyze produces the performance report. A term with zero grades makes
// the corresponding mean undefined (nil) and the report degraded; it is
// never an error.
func (a *PerformanceAnalyzer) Analyze(_ context.Context, record *academic.StudentRecord) (diagnosis.PerformanceReport, error) {
	metrics := diagnosis.PerformanceMetrics{
		MeanCurrent:      mean(record.TermScores(academic.TermCurrent)),
		MeanPrevious:     mean(record.TermScores(academic.TermPrevious)),
		CriticalSubjects: a.criticalSubjects(record),
	}

	if metrics.MeanCurrent != nil && metrics.MeanPrevious != nil {
		drop := round1(*metrics.MeanPrevious - *metrics.MeanCurrent)
		metrics.Drop = &drop
	}

	status := diagnosis.StatusOK
	if metrics.MeanCurrent == nil || metrics.MeanPrevious == nil {
		status = diagnosis.StatusDegraded
	}

	return diagnosis.PerformanceReport{
		Agent:   a.Name(),
		Status:  status,
		Summary: a.summary(metrics),
		Metrics: metrics,
	}, nil
}

// criticalSubjects lists subjects whose mean over all grade entries (both
// terms) is below the critical threshold, sorted for determinism. Using
// the overall mean keeps one bad exam in an otherwise strong subject from
// flagging it critical.
func (a *PerformanceAnalyzer) criticalSubjects(record *academic.StudentRecord) []academic.SubjectID {
	var critical []academic.SubjectID
	for subject, scores := range record.ScoresBySubject() {
		if m := mean(scores); m != nil && *m < a.thresholds.CriticalScore {
			critical = append(critical, subject)
		}
	}
	sort.Slice(critical, func(i, j int) bool { return critical[i] < critical[j] })
	return critical
}

func (a *PerformanceAnalyzer) summary(m diagnosis.PerformanceMetrics) string {
	var b strings.Builder

	switch {
	case m.Drop == nil:
		if m.MeanCurrent != nil {
			fmt.Fprintf(&b, "Média do semestre atual: %.1f. Sem histórico anterior para comparação. ", *m.MeanCurrent)
		} else if m.MeanPrevious != nil {
			fmt.Fprintf(&b, "Nenhuma nota registrada no semestre atual (média anterior: %.1f). ", *m.MeanPrevious)
		} else {
			b.WriteString("Nenhuma nota registrada para o aluno. ")
		}
	case *m.Drop > 0:
		fmt.Fprintf(&b, "Detectada queda de %.1f pontos na média geral, de %.1f para %.1f. ",
			*m.Drop, *m.MeanPrevious, *m.MeanCurrent)
	default:
		fmt.Fprintf(&b, "Sem queda de rendimento: média foi de %.1f para %.1f. ",
			*m.MeanPrevious, *m.MeanCurrent)
	}

	if len(m.CriticalSubjects) > 0 {
		fmt.Fprintf(&b, "Disciplinas críticas identificadas: %s.", joinSubjects(m.CriticalSubjects))
	} else {
		b.WriteString("Nenhuma disciplina com desempenho crítico.")
	}

	return b.String()
}

// mean returns the arithmetic mean, or nil for an empty slice. Undefined
// is not zero: downstream stages must never mistake "no data" for a 0.0
// average.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

// round1 rounds to one decimal place. Thresholds compare rounded values so
// that float noise at a band boundary cannot flip a decision.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func joinSubjects(subjects []academic.SubjectID) string {
	parts := make([]string, len(subjects))
	for i, s := range subjects {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
