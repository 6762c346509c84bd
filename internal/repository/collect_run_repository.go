package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"job-insight/internal/database"
	"job-insight/internal/domain/offer"

	"github.com/google/uuid"
)

type CollectRunRepository interface {
	Start(ctx context.Context, source offer.Source, keyword string) (uuid.UUID, error)
	Finish(ctx context.Context, id uuid.UUID, status offer.RunStatus, found, saved int, runErr error) error
	Recent(ctx context.Context, limit int) ([]offer.CollectRun, error)
}

type PostgresCollectRunRepository struct {
	db database.DB
}

func NewPostgresCollectRunRepository(db database.DB) *PostgresCollectRunRepository {
	return &PostgresCollectRunRepository{db: db}
}

func (r *PostgresCollectRunRepository) Start(ctx context.Context, source offer.Source, keyword string) (uuid.UUID, error) {
	if r.db == nil {
		return uuid.Nil, database.ErrNilDB
	}
	id := uuid.New()
	_, err := r.db.Exec(ctx,
		`INSERT INTO collect_runs (id, source, keyword, status, started_at) VALUES ($1,$2,$3,$4,$5)`,
		id, string(source), strings.TrimSpace(keyword), string(offer.RunRunning), time.Now().UTC(),
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *PostgresCollectRunRepository) Finish(ctx context.Context, id uuid.UUID, status offer.RunStatus, found, saved int, runErr error) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	if id == uuid.Nil {
		return nil
	}
	var msg any
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := r.db.Exec(ctx,
		`UPDATE collect_runs SET status = $2, offers_found = $3, offers_saved = $4, error_message = $5, finished_at = $6 WHERE id = $1`,
		id, string(status), found, saved, msg, time.Now().UTC(),
	)
	return err
}

func (r *PostgresCollectRunRepository) Recent(ctx context.Context, limit int) ([]offer.CollectRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, source, keyword, status, offers_found, offers_saved, error_message, started_at, finished_at
		FROM collect_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]offer.CollectRun, 0)
	for rows.Next() {
		var run offer.CollectRun
		var src, status string
		var msg sql.NullString
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &src, &run.Keyword, &status, &run.OffersFound, &run.OffersSaved, &msg, &run.StartedAt, &finished); err != nil {
			return nil, err
		}
		run.Source = offer.Source(src)
		run.Status = offer.RunStatus(status)
		if msg.Valid {
			run.ErrorMessage = msg.String
		}
		if finished.Valid {
			t := finished.Time.UTC()
			run.FinishedAt = &t
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ CollectRunRepository = (*PostgresCollectRunRepository)(nil)
