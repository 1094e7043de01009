package strokes

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteRepository struct {
	db *sql.DB
}

// opens (or creates) a sqlite stroke log at path
func NewSQLiteRepository(path string) (Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// one writer at a time; readers proceed under WAL
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close() //nolint:errcheck,gosec // already failing
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close() //nolint:errcheck,gosec // already failing
		return nil, fmt.Errorf("failed to create stroke tables: %w", err)
	}

	return &sqliteRepository{db: db}, nil
}

func (r *sqliteRepository) Append(ctx context.Context, stroke *Stroke) error {
	if err := stroke.validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(
		ctx,
		sqliteAppendStroke,
		stroke.ID,
		stroke.RoomID,
		stroke.PrevPoint.X,
		stroke.PrevPoint.Y,
		stroke.CurrentPoint.X,
		stroke.CurrentPoint.Y,
		stroke.Color,
		stroke.Width,
		stroke.IsErasing,
		stroke.CreatedAt.UnixNano(),
		stroke.Seq,
	)

	if err != nil {
		return fmt.Errorf("failed to append stroke: %w", err)
	}

	return nil
}

func (r *sqliteRepository) ListByRoom(ctx context.Context, roomID string) ([]*Stroke, error) {
	rows, err := r.db.QueryContext(ctx, sqliteListStrokesByRoom, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list strokes: %w", err)
	}
	defer rows.Close()

	var list []*Stroke

	for rows.Next() {
		var (
			s         Stroke
			createdAt int64
		)

		err := rows.Scan(
			&s.ID,
			&s.RoomID,
			&s.PrevPoint.X,
			&s.PrevPoint.Y,
			&s.CurrentPoint.X,
			&s.CurrentPoint.Y,
			&s.Color,
			&s.Width,
			&s.IsErasing,
			&createdAt,
			&s.Seq,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan stroke: %w", err)
		}

		s.CreatedAt = time.Unix(0, createdAt).UTC()
		list = append(list, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list strokes: %w", err)
	}

	return list, nil
}

func (r *sqliteRepository) DeleteByRoom(ctx context.Context, roomID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, sqliteDeleteStrokesByRoom, roomID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete strokes: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete strokes: %w", err)
	}

	return n, nil
}

func (r *sqliteRepository) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	var n int64

	if err := r.db.QueryRowContext(ctx, sqliteCountStrokesByRoom, roomID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count strokes: %w", err)
	}

	return n, nil
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
