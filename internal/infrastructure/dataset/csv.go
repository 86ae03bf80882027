// Package dataset implements the academic.RecordSource collaborators:
// CSV file (the original interchange format), SQLite (single-file export),
// and PostgreSQL (institutional database). Sources only fetch raw rows;
// all shaping and diagnosis-level validation stays in the pipeline.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/shared"
)

// Dataset column names, as in the original CSV export.
const (
	colStudentID   = "id_aluno"
	colStudentName = "nome_aluno"
	colSemester    = "semestre_letivo"
	colSubject     = "id_disciplina"
	colEventType   = "tipo_evento"
	colScore       = "nota"
	colPresence    = "presenca"
	colDate        = "data_evento"
)

var requiredColumns = []string{
	colStudentID, colSemester, colSubject, colEventType, colScore, colPresence,
}

// CSVSource reads the dataset from a CSV file. The whole file is scanned
// per lookup; the dataset is small and the process is one-shot.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source over the given file path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

var _ academic.RecordSource = (*CSVSource)(nil)

// StudentRows returns the rows matching the student id, in file order.
func (s *CSVSource) StudentRows(ctx context.Context, id academic.StudentID) ([]academic.Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, shared.WrapError("dataset", "Open", shared.ErrDatasetSource,
			fmt.Sprintf("opening %s", s.path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, shared.WrapError("dataset", "Parse", shared.ErrValidation,
			"reading CSV header", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []academic.Row
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, shared.WrapError("dataset", "Parse", shared.ErrValidation,
				fmt.Sprintf("line %d: malformed CSV record", line), err)
		}

		if cell(fields, cols[colStudentID]) != id.String() {
			continue
		}

		row := academic.Row{
			StudentID:   id.String(),
			StudentName: cell(fields, cols[colStudentName]),
			Semester:    cell(fields, cols[colSemester]),
			Subject:     cell(fields, cols[colSubject]),
			EventType:   cell(fields, cols[colEventType]),
			Date:        cell(fields, cols[colDate]),
		}

		if raw := cell(fields, cols[colScore]); raw != "" {
			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, shared.WrapError("dataset", "Parse", shared.ErrValidation,
					fmt.Sprintf("line %d: nota %q is not numeric", line, raw), err)
			}
			row.Score = &score
		}
		if raw := cell(fields, cols[colPresence]); raw != "" {
			presence, err := strconv.Atoi(raw)
			if err != nil {
				return nil, shared.WrapError("dataset", "Parse", shared.ErrValidation,
					fmt.Sprintf("line %d: presenca %q is not numeric", line, raw), err)
			}
			row.Presence = &presence
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// columnIndex maps column names to positions, failing on missing required
// columns. nome_aluno and data_evento are optional: older exports lack them.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, shared.NewDomainError("dataset", "Parse", shared.ErrValidation,
				fmt.Sprintf("required column %q is missing", name))
		}
	}
	if _, ok := cols[colStudentName]; !ok {
		cols[colStudentName] = -1
	}
	if _, ok := cols[colDate]; !ok {
		cols[colDate] = -1
	}
	return cols, nil
}

func cell(fields []string, index int) string {
	if index < 0 || index >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[index])
}
