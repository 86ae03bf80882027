package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
)

func validatorInput(label diagnosis.Label, record *academic.StudentRecord, perf diagnosis.PerformanceMetrics, eng diagnosis.EngagementMetrics) ValidatorInput {
	return ValidatorInput{
		Hypothesis: diagnosis.Hypothesis{Label: label, Rationale: "r", Confidence: diagnosis.ConfidenceHigh},
		Record:     record,
		Snapshot:   diagnosis.Snapshot{Performance: perf, Engagement: eng},
	}
}

func TestHypothesisValidator_GeneralConfirmed(t *testing.T) {
	v := NewHypothesisValidator(DefaultThresholds())

	// Absences spread across two subjects: the generalization holds.
	record := &academic.StudentRecord{
		ID: "alu_1", Semester: "2025-2",
		Attendance: []academic.AttendanceEvent{
			event("CS101", false), event("CS101", true),
			event("MAT201", false), event("MAT201", true),
		},
	}

	out, err := v.Analyze(context.Background(), validatorInput(
		diagnosis.LabelGeneralDisengagement, record,
		diagnosis.PerformanceMetrics{Drop: f64(2.5)},
		diagnosis.EngagementMetrics{PresencePct: f64(50.0)},
	))
	require.NoError(t, err)

	assert.True(t, out.Validated)
	assert.Equal(t, diagnosis.LabelGeneralDisengagement, out.FinalLabel)
	assert.Empty(t, out.Nuances)
	require.Len(t, out.Evidence, 2)
	assert.Equal(t, "Queda de 2.5 pontos confirma desempenho reduzido.", out.Evidence[0])
	assert.Equal(t, "Frequência de 50.0% indica baixo engajamento.", out.Evidence[1])
	assert.Contains(t, out.Summary, "Hipótese validada: true.")
	assert.Contains(t, out.Summary, "Evidências:")
}

func TestHypothesisValidator_GeneralRefutedByIsolatedAbsence(t *testing.T) {
	v := NewHypothesisValidator(DefaultThresholds())

	// Every absence sits in CS101 while the other subjects hold stable
	// attendance: the broad claim loses to the per-subject breakdown.
	record := &academic.StudentRecord{
		ID: "alu_1", Semester: "2025-2",
		Attendance: []academic.AttendanceEvent{
			event("CS101", false), event("CS101", false), event("CS101", false),
			event("CS101", false), event("CS101", true),
			event("MAT201", true), event("MAT201", true), event("MAT201", true),
			event("FIS101", true), event("FIS101", true),
		},
	}

	out, err := v.Analyze(context.Background(), validatorInput(
		diagnosis.LabelGeneralDisengagement, record,
		diagnosis.PerformanceMetrics{Drop: f64(2.9)},
		diagnosis.EngagementMetrics{PresencePct: f64(60.0)},
	))
	require.NoError(t, err)

	assert.False(t, out.Validated)
	assert.Equal(t, diagnosis.LabelSpecificDifficulty, out.FinalLabel)
	require.Len(t, out.Nuances, 1)
	assert.Contains(t, out.Nuances[0], "isoladas em CS101")
	assert.Contains(t, out.Nuances[0], "O problema parece localizado, não generalizado.")
	assert.Contains(t, out.Summary, "Hipótese validada: false.")
}

func TestHypothesisValidator_GeneralHoldsWhenAbsencesSpread(t *testing.T) {
	v := NewHypothesisValidator(DefaultThresholds())

	// Absences in two subjects: the refutation needs them isolated in one.
	record := &academic.StudentRecord{
		ID: "alu_1", Semester: "2025-2",
		Attendance: []academic.AttendanceEvent{
			event("CS101", false), event("CS101", false),
			event("MAT201", false), event("MAT201", true),
			event("FIS101", true),
		},
	}

	out, err := v.Analyze(context.Background(), validatorInput(
		diagnosis.LabelGeneralDisengagement, record,
		diagnosis.PerformanceMetrics{Drop: f64(2.5)},
		diagnosis.EngagementMetrics{PresencePct: f64(40.0)},
	))
	require.NoError(t, err)

	assert.True(t, out.Validated)
	assert.Equal(t, diagnosis.LabelGeneralDisengagement, out.FinalLabel)
}

func TestHypothesisValidator_SpecificConfirmed(t *testing.T) {
	v := NewHypothesisValidator(DefaultThresholds())

	record := &academic.StudentRecord{
		ID: "alu_1", Semester: "2025-2",
		Attendance: []academic.AttendanceEvent{
			event("CS101", false), event("CS101", false), event("CS101", true),
			event("MAT201", true),
		},
	}

	out, err := v.Analyze(context.Background(), validatorInput(
		diagnosis.LabelSpecificDifficulty, record,
		diagnosis.PerformanceMetrics{CriticalSubjects: []academic.SubjectID{"CS101"}},
		diagnosis.EngagementMetrics{Concentration: "CS101"},
	))
	require.NoError(t, err)

	assert.True(t, out.Validated)
	require.Len(t, out.Evidence, 2)
	assert.Equal(t, "Disciplina crítica identificada: CS101.", out.Evidence[0])
	assert.Equal(t, "Ausências concentradas em CS101 reforçam a hipótese.", out.Evidence[1])
}

func TestHypothesisValidator_SpecificWidenedByMultipleCriticals(t *testing.T) {
	v := NewHypothesisValidator(DefaultThresholds())

	record := &academic.StudentRecord{ID: "alu_1", Semester: "2025-2"}

	out, err := v.Analyze(context.Background(), validatorInput(
		diagnosis.LabelSpecificDifficulty, record,
		diagnosis.PerformanceMetrics{CriticalSubjects: []academic.SubjectID{"CS101", "MAT201"}},
		diagnosis.EngagementMetrics{},
	))
	require.NoError(t, err)

	// Still validated: the claim widens, it is not refuted.
	assert.True(t, out.Validated)
	require.Len(t, out.Nuances, 1)
	assert.Contains(t, out.Nuances[0], "Múltiplas disciplinas críticas")
}

func TestHypothesisValidator_StableWithWeakEvidence(t *testing.T) {
	v := NewHypothesisValidator(DefaultThresholds())

	record := &academic.StudentRecord{
		ID: "alu_1", Semester: "2025-2",
		Grades: []academic.GradeEntry{
			{Subject: "CS101", Score: 7.0, Term: academic.TermCurrent},
		},
		Attendance: []academic.AttendanceEvent{event("CS101", true)},
	}

	out, err := v.Analyze(context.Background(), validatorInput(
		diagnosis.LabelUnstablePerformance, record,
		diagnosis.PerformanceMetrics{},
		diagnosis.EngagementMetrics{},
	))
	require.NoError(t, err)

	assert.True(t, out.Validated)
	require.Len(t, out.Nuances, 1)
	assert.Contains(t, out.Nuances[0], "Evidência limitada (1 notas, 1 eventos de frequência)")
	assert.Contains(t, out.Summary, "Nuances:")
}

func TestHypothesisValidator_StableWithSolidEvidence(t *testing.T) {
	v := NewHypothesisValidator(DefaultThresholds())

	record := &academic.StudentRecord{
		ID: "alu_1", Semester: "2025-2",
		Grades: []academic.GradeEntry{
			{Subject: "CS101", Score: 7.0, Term: academic.TermPrevious},
			{Subject: "CS101", Score: 7.5, Term: academic.TermCurrent},
		},
		Attendance: []academic.AttendanceEvent{
			event("CS101", true), event("CS101", true),
			event("CS101", true), event("CS101", true),
		},
	}

	out, err := v.Analyze(context.Background(), validatorInput(
		diagnosis.LabelUnstablePerformance, record,
		diagnosis.PerformanceMetrics{Drop: f64(-0.5)},
		diagnosis.EngagementMetrics{PresencePct: f64(100.0)},
	))
	require.NoError(t, err)

	assert.True(t, out.Validated)
	assert.Empty(t, out.Nuances)
	assert.Equal(t, "Hipótese validada: true.", out.Summary)
}
