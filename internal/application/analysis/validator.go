package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
)

// ══════════════════════════════════════════════════════════════════════════════
// HYPOTHESIS VALIDATOR
// The devil's advocate. It goes back to the raw per-subject breakdown -
// not the summarized metrics - and actively searches for counter-evidence
// to the stated label. The rule it enforces: whenever finer-grained
// evidence contradicts a broad claim, the narrow diagnosis wins.
// ══════════════════════════════════════════════════════════════════════════════

// ValidatorInput is the validation stage input: the hypothesis under test,
// the raw record, and the metric snapshot.
type ValidatorInput struct {
	Hypothesis diagnosis.Hypothesis
	Record     *academic.StudentRecord
	Snapshot   diagnosis.Snapshot
}

// HypothesisValidator confirms, refines, or refutes a hypothesis.
type HypothesisValidator struct {
	thresholds Thresholds
}

// NewHypothesisValidator creates the validator with the given thresholds.
func NewHypothesisValidator(thresholds Thresholds) *HypothesisValidator {
	return &HypothesisValidator{thresholds: thresholds}
}

// Name identifies the stage.
func (v *HypothesisValidator) Name() string { return "Validador de Hipóteses" }

var _ Agent[ValidatorInput, diagnosis.ValidatedHypothesis] = (*HypothesisValidator)(nil)

// Analyze runs the counter-evidence search for the hypothesis label.
func (v *HypothesisValidator) Analyze(_ context.Context, in ValidatorInput) (diagnosis.ValidatedHypothesis, error) {
	out := diagnosis.ValidatedHypothesis{
		Original:   in.Hypothesis,
		Validated:  true,
		FinalLabel: in.Hypothesis.Label,
	}

	switch in.Hypothesis.Label {
	case diagnosis.LabelGeneralDisengagement:
		v.validateGeneral(&out, in)
	case diagnosis.LabelSpecificDifficulty:
		v.validateSpecific(&out, in)
	default:
		v.validateStable(&out, in)
	}

	out.Summary = v.summary(out)
	return out, nil
}

// validateGeneral tries to refute the generalization: if the absences sit
// in exactly one subject while every other observed subject keeps stable
// attendance, the problem is localized, not general.
func (v *HypothesisValidator) validateGeneral(out *diagnosis.ValidatedHypothesis, in ValidatorInput) {
	absences := in.Record.AbsencesBySubject()
	rates := in.Record.PresenceRateBySubject()

	if isolated, subject := v.isolatedAbsence(absences, rates); isolated {
		out.Validated = false
		out.FinalLabel = diagnosis.LabelSpecificDifficulty
		out.Nuances = append(out.Nuances, fmt.Sprintf(
			"A hipótese de desengajamento geral é questionável: as ausências estão isoladas em %s enquanto as demais disciplinas mantêm frequência estável. O problema parece localizado, não generalizado.",
			subject))
		return
	}

	perf := in.Snapshot.Performance
	eng := in.Snapshot.Engagement
	if perf.Drop != nil {
		out.Evidence = append(out.Evidence,
			fmt.Sprintf("Queda de %.1f pontos confirma desempenho reduzido.", *perf.Drop))
	}
	if eng.PresencePct != nil {
		out.Evidence = append(out.Evidence,
			fmt.Sprintf("Frequência de %.1f%% indica baixo engajamento.", *eng.PresencePct))
	}
}

// isolatedAbsence reports whether exactly one subject accounts for all
// absences while every other subject with attendance events stays at or
// above the stable-attendance threshold.
func (v *HypothesisValidator) isolatedAbsence(absences map[academic.SubjectID]int, rates map[academic.SubjectID]float64) (bool, academic.SubjectID) {
	if len(absences) != 1 {
		return false, ""
	}
	var isolated academic.SubjectID
	for subject := range absences {
		isolated = subject
	}
	for subject, rate := range rates {
		if subject == isolated {
			continue
		}
		if rate < v.thresholds.StableAttendance {
			return false, ""
		}
	}
	return true, isolated
}

// validateSpecific checks that the difficulty really is specific: more
// than one critical subject widens the claim instead of refuting it.
func (v *HypothesisValidator) validateSpecific(out *diagnosis.ValidatedHypothesis, in ValidatorInput) {
	perf := in.Snapshot.Performance
	eng := in.Snapshot.Engagement

	if len(perf.CriticalSubjects) > 1 {
		out.Nuances = append(out.Nuances,
			"Múltiplas disciplinas críticas sugerem que o problema pode ser mais amplo que uma dificuldade específica.")
		return
	}

	if len(perf.CriticalSubjects) == 1 {
		subject := perf.CriticalSubjects[0]
		out.Evidence = append(out.Evidence,
			fmt.Sprintf("Disciplina crítica identificada: %s.", subject))
		if in.Record.AbsencesBySubject()[subject] > 0 && eng.Concentration == subject {
			out.Evidence = append(out.Evidence,
				fmt.Sprintf("Ausências concentradas em %s reforçam a hipótese.", subject))
		}
	}
}

// validateStable confirms the low-signal diagnosis, flagging thin evidence.
func (v *HypothesisValidator) validateStable(out *diagnosis.ValidatedHypothesis, in ValidatorInput) {
	if v.weakEvidence(in.Record) {
		out.Nuances = append(out.Nuances, fmt.Sprintf(
			"Evidência limitada (%d notas, %d eventos de frequência); diagnóstico deve ser lido com cautela.",
			len(in.Record.Grades), len(in.Record.Attendance)))
	}
}

func (v *HypothesisValidator) weakEvidence(record *academic.StudentRecord) bool {
	return len(record.Grades) < v.thresholds.MinGradeEvidence ||
		len(record.Attendance) < v.thresholds.MinAttendanceEvidence
}

// summary renders the mandatory verdict string: the boolean outcome first,
// then nuances, then evidence.
func (v *HypothesisValidator) summary(out diagnosis.ValidatedHypothesis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hipótese validada: %t.", out.Validated)
	if len(out.Nuances) > 0 {
		fmt.Fprintf(&b, " Nuances: %s", strings.Join(out.Nuances, " "))
	}
	if len(out.Evidence) > 0 {
		fmt.Fprintf(&b, " Evidências: %s", strings.Join(out.Evidence, " "))
	}
	return b.String()
}
