package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentID_IsValid(t *testing.T) {
	assert.True(t, StudentID("alu_101").IsValid())
	assert.False(t, StudentID("").IsValid())
	assert.False(t, StudentID("alu 101").IsValid())
	assert.False(t, StudentID("alu\t101").IsValid())
}

func TestScore_IsValid(t *testing.T) {
	assert.True(t, Score(0).IsValid())
	assert.True(t, Score(10).IsValid())
	assert.True(t, Score(6.5).IsValid())
	assert.False(t, Score(-0.1).IsValid())
	assert.False(t, Score(10.1).IsValid())
}

func sampleRecord() *StudentRecord {
	return &StudentRecord{
		ID:       "alu_101",
		Name:     "Ana Souza",
		Semester: "2025-2",
		Grades: []GradeEntry{
			{Subject: "CS101", Score: 9.0, Term: TermPrevious},
			{Subject: "CS101", Score: 6.0, Term: TermCurrent},
			{Subject: "MAT201", Score: 8.0, Term: TermCurrent},
		},
		Attendance: []AttendanceEvent{
			{Subject: "CS101", Present: false, Term: TermCurrent},
			{Subject: "CS101", Present: true, Term: TermCurrent},
			{Subject: "MAT201", Present: true, Term: TermCurrent},
			{Subject: "MAT201", Present: true, Term: TermCurrent},
		},
	}
}

func TestStudentRecord_TermScores(t *testing.T) {
	r := sampleRecord()

	assert.Equal(t, []float64{6.0, 8.0}, r.TermScores(TermCurrent))
	assert.Equal(t, []float64{9.0}, r.TermScores(TermPrevious))
}

func TestStudentRecord_ScoresBySubject(t *testing.T) {
	r := sampleRecord()

	scores := r.ScoresBySubject()
	assert.Equal(t, []float64{9.0, 6.0}, scores["CS101"])
	assert.Equal(t, []float64{8.0}, scores["MAT201"])
}

func TestStudentRecord_AbsencesBySubject(t *testing.T) {
	r := sampleRecord()

	absences := r.AbsencesBySubject()
	assert.Equal(t, 1, absences["CS101"])

	// Subjects without absences are omitted, not zero.
	_, ok := absences["MAT201"]
	assert.False(t, ok)
}

func TestStudentRecord_PresenceRateBySubject(t *testing.T) {
	r := sampleRecord()

	rates := r.PresenceRateBySubject()
	assert.InDelta(t, 50.0, rates["CS101"], 0.001)
	assert.InDelta(t, 100.0, rates["MAT201"], 0.001)
}

func TestStudentRecord_Subjects_Sorted(t *testing.T) {
	r := &StudentRecord{
		ID: "alu_1",
		Grades: []GradeEntry{
			{Subject: "FIS101", Score: 7, Term: TermCurrent},
		},
		Attendance: []AttendanceEvent{
			{Subject: "CS101", Present: true, Term: TermCurrent},
			{Subject: "MAT201", Present: true, Term: TermCurrent},
		},
	}

	assert.Equal(t, []SubjectID{"CS101", "FIS101", "MAT201"}, r.Subjects())
}

func TestStudentRecord_Validate(t *testing.T) {
	require.NoError(t, sampleRecord().Validate())

	bad := sampleRecord()
	bad.Grades = append(bad.Grades, GradeEntry{Subject: "CS101", Score: 12, Term: TermCurrent})
	assert.Error(t, bad.Validate())

	noID := sampleRecord()
	noID.ID = ""
	assert.Error(t, noID.Validate())
}
