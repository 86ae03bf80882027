package analysis

import (
	"context"
	"fmt"

	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
)

// ══════════════════════════════════════════════════════════════════════════════
// HYPOTHESIS GENERATOR
// Synthesizes the two analyzer reports into an initial diagnosis. The
// decision table runs in priority order; the rationale always cites the
// numbers that triggered the branch taken.
// ══════════════════════════════════════════════════════════════════════════════

// Reports bundles the two analyzer artifacts for the generator.
type Reports struct {
	Performance diagnosis.PerformanceReport
	Engagement  diagnosis.EngagementReport
}

// HypothesisGenerator forms the initial hypothesis.
type HypothesisGenerator struct {
	thresholds Thresholds
}

// NewHypothesisGenerator creates the generator with the given thresholds.
func NewHypothesisGenerator(thresholds Thresholds) *HypothesisGenerator {
	return &HypothesisGenerator{thresholds: thresholds}
}

// Name identifies the stage.
func (g *HypothesisGenerator) Name() string { return "Agente de Diagnóstico" }

var _ Agent[Reports, diagnosis.Hypothesis] = (*HypothesisGenerator)(nil)

// Analyze evaluates the decision table:
//  1. significant drop AND low presence  -> general disengagement
//  2. one critical subject carrying the absence concentration
//     -> specific subject difficulty
//  3. otherwise -> stable / possibly localized
//
// Undefined metrics (nil drop, nil presence) fail the conditions that
// reference them: insufficient evidence never escalates a diagnosis.
func (g *HypothesisGenerator) Analyze(_ context.Context, in Reports) (diagnosis.Hypothesis, error) {
	perf := in.Performance.Metrics
	eng := in.Engagement.Metrics

	if perf.Drop != nil && *perf.Drop > g.thresholds.SignificantDrop &&
		eng.PresencePct != nil && *eng.PresencePct < g.thresholds.LowPresence {
		return diagnosis.Hypothesis{
			Label: diagnosis.LabelGeneralDisengagement,
			Rationale: fmt.Sprintf(
				"Queda de %.1f pontos na média geral combinada com presença de %.1f%% indica desengajamento geral.",
				*perf.Drop, *eng.PresencePct),
			Confidence: diagnosis.ConfidenceHigh,
		}, nil
	}

	if len(perf.CriticalSubjects) == 1 && eng.Concentration != "" &&
		perf.CriticalSubjects[0] == eng.Concentration {
		subject := perf.CriticalSubjects[0]
		return diagnosis.Hypothesis{
			Label: diagnosis.LabelSpecificDifficulty,
			Rationale: fmt.Sprintf(
				"Dificuldade específica em %s: disciplina crítica concentra %d ausências.",
				subject, eng.AbsencesBySubject[subject]),
			Confidence: diagnosis.ConfidenceHigh,
		}, nil
	}

	confidence := diagnosis.ConfidenceModerate
	if in.Performance.Status == diagnosis.StatusDegraded || in.Engagement.Status == diagnosis.StatusDegraded {
		confidence = diagnosis.ConfidenceLow
	}
	return diagnosis.Hypothesis{
		Label:      diagnosis.LabelUnstablePerformance,
		Rationale:  g.stableRationale(perf, eng),
		Confidence: confidence,
	}, nil
}

func (g *HypothesisGenerator) stableRationale(perf diagnosis.PerformanceMetrics, eng diagnosis.EngagementMetrics) string {
	drop := "indefinida"
	if perf.Drop != nil {
		drop = fmt.Sprintf("%.1f pontos", *perf.Drop)
	}
	presence := "indefinida"
	if eng.PresencePct != nil {
		presence = fmt.Sprintf("%.1f%%", *eng.PresencePct)
	}
	return fmt.Sprintf(
		"Desempenho relativamente estável com possível desengajamento localizado (queda: %s, presença: %s).",
		drop, presence)
}
