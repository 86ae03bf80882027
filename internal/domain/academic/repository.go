package academic

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// DATASET CONTRACT
// The dataset itself is an external collaborator: one row per
// (student, semester, subject) observation. Sources only fetch rows;
// shaping them into a StudentRecord is the extractor's job.
// ══════════════════════════════════════════════════════════════════════════════

// Event types found in the tipo_evento column.
const (
	// EventExam is a graded exam observation (carries nota).
	EventExam = "prova"
	// EventClass is a class attendance observation (carries presenca).
	EventClass = "aula"
)

// Row is one raw observation from the institutional dataset.
// Nullable columns are pointers: nil means the cell was empty.
type Row struct {
	StudentID   string
	StudentName string
	Semester    string
	Subject     string
	EventType   string
	Score       *float64
	Presence    *int
	Date        string
}

// RecordSource fetches the raw dataset rows for one student.
// Implementations live in infrastructure (CSV file, SQLite, PostgreSQL).
// An unknown student yields an empty slice and no error; the extractor
// turns that into a not-found failure.
type RecordSource interface {
	StudentRows(ctx context.Context, id StudentID) ([]Row, error)
}
