// Package academic contains the domain model for a student's academic
// record: grades, attendance events, and the aggregates the analysis
// pipeline reads. This is the core of the business logic - there are no
// external dependencies here.
package academic

import (
	"sort"
	"strings"

	"github.com/veloedu/risk-radar/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentID identifies a student in the institutional dataset.
type StudentID string

// IsValid checks that the identifier is non-empty and has no whitespace.
func (id StudentID) IsValid() bool {
	s := string(id)
	return s != "" && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the identifier.
func (id StudentID) String() string {
	return string(id)
}

// SubjectID identifies a subject (disciplina) the student is enrolled in.
type SubjectID string

// IsValid checks that the subject identifier is non-empty.
func (s SubjectID) IsValid() bool {
	return strings.TrimSpace(string(s)) != ""
}

// String returns the string representation of the subject identifier.
func (s SubjectID) String() string {
	return string(s)
}

// Score is a numeric grade on the institutional 0-10 scale.
type Score float64

// IsValid checks that the score is inside the valid grading range.
func (s Score) IsValid() bool {
	return s >= 0 && s <= 10
}

// Term tags an observation as belonging to the current or a previous
// semester. The current semester is whichever semester tag sorts highest
// among the student's rows.
type Term string

const (
	// TermCurrent marks observations from the student's latest semester.
	TermCurrent Term = "current"
	// TermPrevious marks observations from any earlier semester.
	TermPrevious Term = "previous"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// GradeEntry is a single exam grade observation.
type GradeEntry struct {
	Subject SubjectID
	Score   Score
	Term    Term
}

// Validate checks the entry invariants.
func (g GradeEntry) Validate() error {
	if !g.Subject.IsValid() {
		return shared.ErrEmptySubject
	}
	if !g.Score.IsValid() {
		return shared.ErrScoreOutOfRange
	}
	return nil
}

// AttendanceEvent is a single class attendance observation.
type AttendanceEvent struct {
	Subject SubjectID
	Present bool
	Term    Term
}

// Validate checks the event invariants.
func (a AttendanceEvent) Validate() error {
	if !a.Subject.IsValid() {
		return shared.ErrEmptySubject
	}
	return nil
}

// StudentRecord is the full extracted record for one student. It is owned
// by a single analysis run and never mutated after extraction: every
// downstream stage reads it, none writes it.
type StudentRecord struct {
	// ID is the student identifier from the dataset.
	ID StudentID

	// Name is the student's display name. The analysis core never uses it;
	// it exists for the presentation layer (alert rendering).
	Name string

	// Semester is the tag of the current semester, e.g. "2025-2".
	Semester string

	// Grades are the exam observations, in dataset order.
	Grades []GradeEntry

	// Attendance are the class observations, in dataset order.
	Attendance []AttendanceEvent
}

// Validate checks the record and all of its entries.
func (r *StudentRecord) Validate() error {
	if !r.ID.IsValid() {
		return shared.NewDomainError("academic", "Validate", shared.ErrInvalidID, "invalid student identifier")
	}
	for _, g := range r.Grades {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	for _, a := range r.Attendance {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATES
// Derived views over the raw entries. All return fresh values so callers
// cannot alias into the record.
// ══════════════════════════════════════════════════════════════════════════════

// TermScores returns the raw scores for one term, in entry order.
func (r *StudentRecord) TermScores(term Term) []float64 {
	var out []float64
	for _, g := range r.Grades {
		if g.Term == term {
			out = append(out, float64(g.Score))
		}
	}
	return out
}

// ScoresBySubject groups every grade (both terms) by subject.
func (r *StudentRecord) ScoresBySubject() map[SubjectID][]float64 {
	out := make(map[SubjectID][]float64)
	for _, g := range r.Grades {
		out[g.Subject] = append(out[g.Subject], float64(g.Score))
	}
	return out
}

// AbsencesBySubject counts absence events per subject. Subjects with no
// absences are not present in the map.
func (r *StudentRecord) AbsencesBySubject() map[SubjectID]int {
	out := make(map[SubjectID]int)
	for _, a := range r.Attendance {
		if !a.Present {
			out[a.Subject]++
		}
	}
	return out
}

// PresenceRateBySubject returns, per subject with at least one attendance
// event, the percentage of events the student was present for.
func (r *StudentRecord) PresenceRateBySubject() map[SubjectID]float64 {
	total := make(map[SubjectID]int)
	present := make(map[SubjectID]int)
	for _, a := range r.Attendance {
		total[a.Subject]++
		if a.Present {
			present[a.Subject]++
		}
	}
	out := make(map[SubjectID]float64, len(total))
	for subject, n := range total {
		out[subject] = float64(present[subject]) / float64(n) * 100
	}
	return out
}

// Subjects returns every subject referenced by the record, sorted for
// deterministic iteration.
func (r *StudentRecord) Subjects() []SubjectID {
	seen := make(map[SubjectID]struct{})
	for _, g := range r.Grades {
		seen[g.Subject] = struct{}{}
	}
	for _, a := range r.Attendance {
		seen[a.Subject] = struct{}{}
	}
	out := make([]SubjectID, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
