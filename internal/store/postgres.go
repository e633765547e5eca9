package store

import (
	"context"
	"database/sql"
	"fmt"

	"chronicle/history/internal/authorship"
	"chronicle/history/internal/snapshot"
)

// PostgresStore reads authorship records written by the history service. It
// never writes them.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListAuthorshipRanges returns the ranges recorded for documentID at revision
// in ascending start order. Rows are returned as stored; clamping happens when
// the ranges are seeded into a snapshot.
func (s *PostgresStore) ListAuthorshipRanges(ctx context.Context, documentID, revision string) ([]snapshot.AuthorRange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, revision, author_id, author_type, start_offset, end_offset
		FROM authorship_ranges
		WHERE document_id=$1 AND revision=$2
		ORDER BY start_offset ASC, id ASC
	`, documentID, revision)
	if err != nil {
		return nil, fmt.Errorf("list authorship ranges: %w", err)
	}
	defer rows.Close()

	items := make([]snapshot.AuthorRange, 0)
	for rows.Next() {
		var row AuthorshipRangeRow
		if err := rows.Scan(&row.DocumentID, &row.Revision, &row.AuthorID, &row.AuthorType, &row.StartOffset, &row.EndOffset); err != nil {
			return nil, fmt.Errorf("scan authorship range: %w", err)
		}
		items = append(items, toAuthorRange(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate authorship ranges: %w", err)
	}
	return items, nil
}

func toAuthorRange(row AuthorshipRangeRow) snapshot.AuthorRange {
	return snapshot.AuthorRange{
		AuthorID:   row.AuthorID,
		AuthorType: authorship.ParseKind(row.AuthorType),
		Start:      row.StartOffset,
		End:        row.EndOffset,
	}
}
