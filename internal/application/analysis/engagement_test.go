package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/diagnosis"
)

func attendanceRecord(events ...academic.AttendanceEvent) *academic.StudentRecord {
	return &academic.StudentRecord{ID: "alu_1", Semester: "2025-2", Attendance: events}
}

func event(subject string, present bool) academic.AttendanceEvent {
	return academic.AttendanceEvent{Subject: academic.SubjectID(subject), Present: present, Term: academic.TermCurrent}
}

func TestEngagementAnalyzer_PresenceAndConcentration(t *testing.T) {
	a := NewEngagementAnalyzer()

	record := attendanceRecord(
		event("CS101", false),
		event("CS101", false),
		event("CS101", false),
		event("MAT201", true),
		event("MAT201", true),
		event("MAT201", true),
		event("FIS101", true),
		event("FIS101", true),
		event("FIS101", true),
	)

	report, err := a.Analyze(context.Background(), record)
	require.NoError(t, err)

	assert.Equal(t, diagnosis.StatusOK, report.Status)
	require.NotNil(t, report.Metrics.PresencePct)
	assert.InDelta(t, 66.67, *report.Metrics.PresencePct, 0.01)
	assert.Equal(t, 3, report.Metrics.AbsenceTotal)
	assert.Equal(t, academic.SubjectID("CS101"), report.Metrics.Concentration)

	assert.Contains(t, report.Summary, "Frequência de presença: 66.7%.")
	assert.Contains(t, report.Summary, "Total de ausências identificadas: 3.")
	assert.Contains(t, report.Summary, "Maior concentração de ausências em: CS101.")
}

func TestEngagementAnalyzer_NoAbsences(t *testing.T) {
	a := NewEngagementAnalyzer()

	report, err := a.Analyze(context.Background(), attendanceRecord(
		event("CS101", true),
		event("MAT201", true),
	))
	require.NoError(t, err)

	require.NotNil(t, report.Metrics.PresencePct)
	assert.Equal(t, 100.0, *report.Metrics.PresencePct)
	assert.Equal(t, 0, report.Metrics.AbsenceTotal)
	assert.Equal(t, academic.SubjectID(""), report.Metrics.Concentration)
	assert.Contains(t, report.Summary, "Nenhuma ausência registrada.")
}

func TestEngagementAnalyzer_ZeroEvents(t *testing.T) {
	a := NewEngagementAnalyzer()

	report, err := a.Analyze(context.Background(), attendanceRecord())
	require.NoError(t, err)

	assert.Equal(t, diagnosis.StatusDegraded, report.Status)
	assert.Nil(t, report.Metrics.PresencePct)
	assert.Equal(t, "Nenhum evento de frequência registrado para o aluno.", report.Summary)
}

func TestConcentration_TieBreaksLexicographically(t *testing.T) {
	absences := map[academic.SubjectID]int{
		"MAT201": 2,
		"CS101":  2,
		"FIS101": 1,
	}

	// Two subjects tie at 2 absences; the smaller identifier wins so the
	// result does not depend on map iteration order.
	assert.Equal(t, academic.SubjectID("CS101"), concentration(absences))
}
