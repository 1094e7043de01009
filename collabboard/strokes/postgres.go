package strokes

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

// stroke log backed by a pgx pool; the repository owns the pool from here on
func NewPostgresRepository(ctx context.Context, db *pgxpool.Pool) (Repository, error) {
	r := &postgresRepository{db: db}

	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *postgresRepository) ensureSchema(ctx context.Context) error {
	for _, stmt := range []string{queryCreateStrokesTable, queryCreateStrokesIndex} {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure stroke schema: %w", err)
		}
	}

	return nil
}

func (r *postgresRepository) Append(ctx context.Context, stroke *Stroke) error {
	if err := stroke.validate(); err != nil {
		return err
	}

	_, err := r.db.Exec(
		ctx,
		queryAppendStroke,
		stroke.ID,
		stroke.RoomID,
		stroke.PrevPoint.X,
		stroke.PrevPoint.Y,
		stroke.CurrentPoint.X,
		stroke.CurrentPoint.Y,
		stroke.Color,
		stroke.Width,
		stroke.IsErasing,
		stroke.CreatedAt,
		stroke.Seq,
	)

	if err != nil {
		return fmt.Errorf("failed to append stroke: %w", err)
	}

	return nil
}

func (r *postgresRepository) ListByRoom(ctx context.Context, roomID string) ([]*Stroke, error) {
	rows, err := r.db.Query(ctx, queryListStrokesByRoom, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list strokes: %w", err)
	}
	defer rows.Close()

	var list []*Stroke

	for rows.Next() {
		var s Stroke

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
			&s.CreatedAt,
			&s.Seq,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan stroke: %w", err)
		}

		list = append(list, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list strokes: %w", err)
	}

	return list, nil
}

func (r *postgresRepository) DeleteByRoom(ctx context.Context, roomID string) (int64, error) {
	tag, err := r.db.Exec(ctx, queryDeleteStrokesByRoom, roomID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete strokes: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresRepository) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	var n int64

	if err := r.db.QueryRow(ctx, queryCountStrokesByRoom, roomID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count strokes: %w", err)
	}

	return n, nil
}

func (r *postgresRepository) Close() error {
	r.db.Close()
	return nil
}
