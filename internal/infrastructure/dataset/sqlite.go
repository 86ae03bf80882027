package dataset

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SQLITE SOURCE
// Single-file export of the academic history, read-only. Uses the pure-Go
// driver so the binary stays CGO-free.
// ══════════════════════════════════════════════════════════════════════════════

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteSource fetches dataset rows from a SQLite export file.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// NewSQLiteSource opens the export file. The file must already exist; the
// analyzer never creates or migrates datasets.
func NewSQLiteSource(path, table string) (*SQLiteSource, error) {
	if table == "" {
		table = "historico_academico"
	}

	db, err := openDB("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, shared.WrapError("dataset", "Open", shared.ErrDatasetSource,
			fmt.Sprintf("opening %s", path), err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, shared.WrapError("dataset", "Open", shared.ErrDatasetSource,
			fmt.Sprintf("pinging %s", path), err)
	}

	return &SQLiteSource{db: db, table: table}, nil
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

var _ academic.RecordSource = (*SQLiteSource)(nil)

// StudentRows returns the rows matching the student id, deterministically
// ordered.
func (s *SQLiteSource) StudentRows(ctx context.Context, id academic.StudentID) ([]academic.Row, error) {
	query := fmt.Sprintf(`
		SELECT id_aluno, COALESCE(nome_aluno, ''), semestre_letivo, id_disciplina,
		       tipo_evento, nota, presenca, COALESCE(data_evento, '')
		FROM %s
		WHERE id_aluno = ?
		ORDER BY semestre_letivo, id_disciplina, data_evento, tipo_evento
	`, s.table)

	rows, err := s.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, shared.WrapError("dataset", "Query", shared.ErrDatasetSource,
			"fetching student rows", err)
	}
	defer rows.Close()

	var out []academic.Row
	for rows.Next() {
		var (
			row      academic.Row
			score    sql.NullFloat64
			presence sql.NullInt64
		)
		if err := rows.Scan(
			&row.StudentID,
			&row.StudentName,
			&row.Semester,
			&row.Subject,
			&row.EventType,
			&score,
			&presence,
			&row.Date,
		); err != nil {
			return nil, shared.WrapError("dataset", "Scan", shared.ErrDatasetSource,
				"scanning student row", err)
		}
		if score.Valid {
			v := score.Float64
			row.Score = &v
		}
		if presence.Valid {
			v := int(presence.Int64)
			row.Presence = &v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("dataset", "Query", shared.ErrDatasetSource,
			"iterating student rows", err)
	}

	return out, nil
}
