package analysis

import (
	"context"
	"fmt"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD EXTRACTOR
// Selects and shapes one student's rows out of the full dataset. Pure
// filter/projection: the only failure modes are an unknown student and
// malformed rows.
// ══════════════════════════════════════════════════════════════════════════════

// RecordExtractor builds a StudentRecord from raw dataset rows.
type RecordExtractor struct {
	source academic.RecordSource
}

// NewRecordExtractor creates an extractor over the given dataset source.
func NewRecordExtractor(source academic.RecordSource) *RecordExtractor {
	return &RecordExtractor{source: source}
}

// Name identifies the stage.
func (e *RecordExtractor) Name() string { return "Extrator de Registros" }

var _ Agent[academic.StudentID, *academic.StudentRecord] = (*RecordExtractor)(nil)

// Analyze fetches and shapes the record for one student. The returned
// record is freshly built and exclusively owned by the caller.
func (e *RecordExtractor) Analyze(ctx context.Context, id academic.StudentID) (*academic.StudentRecord, error) {
	if !id.IsValid() {
		return nil, shared.NewDomainError("academic", "Extract", shared.ErrInvalidID,
			fmt.Sprintf("invalid student identifier %q", id))
	}

	rows, err := e.source.StudentRows(ctx, id)
	if err != nil {
		return nil, shared.WrapError("academic", "Extract", shared.ErrDatasetSource,
			"fetching dataset rows", err)
	}
	if len(rows) == 0 {
		return nil, shared.NewDomainError("academic", "Extract", shared.ErrNotFound,
			fmt.Sprintf("student %s not found in dataset", id))
	}

	current := currentSemester(rows)

	record := &academic.StudentRecord{
		ID:       id,
		Name:     rows[0].StudentName,
		Semester: current,
	}

	for i, row := range rows {
		if row.Semester == "" {
			return nil, rowError(shared.ErrEmptyValue, i, "empty semester tag")
		}
		if row.Subject == "" {
			return nil, rowError(shared.ErrEmptyValue, i, "empty subject identifier")
		}

		term := academic.TermPrevious
		if row.Semester == current {
			term = academic.TermCurrent
		}

		switch row.EventType {
		case academic.EventExam:
			if row.Score == nil {
				continue // ungraded exam rows are allowed
			}
			entry := academic.GradeEntry{
				Subject: academic.SubjectID(row.Subject),
				Score:   academic.Score(*row.Score),
				Term:    term,
			}
			if !entry.Score.IsValid() {
				return nil, rowError(shared.ErrValueOutOfRange, i,
					fmt.Sprintf("score %.2f outside the 0-10 range", *row.Score))
			}
			record.Grades = append(record.Grades, entry)

		case academic.EventClass:
			if row.Presence == nil {
				continue // unrecorded attendance rows are allowed
			}
			if *row.Presence != 0 && *row.Presence != 1 {
				return nil, rowError(shared.ErrValidation, i,
					fmt.Sprintf("presence flag %d is not 0 or 1", *row.Presence))
			}
			record.Attendance = append(record.Attendance, academic.AttendanceEvent{
				Subject: academic.SubjectID(row.Subject),
				Present: *row.Presence == 1,
				Term:    term,
			})

		default:
			return nil, rowError(shared.ErrValidation, i,
				fmt.Sprintf("unknown event type %q", row.EventType))
		}
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

// currentSemester finds the highest semester tag among the rows. Semester
// tags sort lexicographically ("2025-1" < "2025-2").
func currentSemester(rows []academic.Row) string {
	current := ""
	for _, row := range rows {
		if row.Semester > current {
			current = row.Semester
		}
	}
	return current
}

func rowError(kind error, index int, msg string) error {
	return shared.NewDomainError("academic", "Extract", kind,
		fmt.Sprintf("row %d: %s", index, msg))
}
