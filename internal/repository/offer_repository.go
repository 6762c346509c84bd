package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-insight/internal/database"
	"job-insight/internal/domain/offer"

	"github.com/google/uuid"
)

var (
	ErrOfferNotFound  = errors.New("offer not found")
	ErrAmbiguousOffer = errors.New("offer id exists in several sources")
)

const maxListLimit = 1000

type OfferFilter struct {
	Source offer.Source
	Limit  int
	Offset int
}

type OfferRepository interface {
	UpsertOffers(ctx context.Context, runID uuid.UUID, offers []offer.JobOffer) (int, error)
	List(ctx context.Context, f OfferFilter) ([]offer.JobOffer, error)
	ListAll(ctx context.Context, source offer.Source) ([]offer.JobOffer, error)
	GetByID(ctx context.Context, source offer.Source, id string) (offer.JobOffer, error)
	Count(ctx context.Context, source offer.Source) (int, error)
	SourceStats(ctx context.Context) ([]offer.SourceStat, error)
}

type PostgresOfferRepository struct {
	db database.DB
}

func NewPostgresOfferRepository(db database.DB) *PostgresOfferRepository {
	return &PostgresOfferRepository{db: db}
}

const offerColumns = `id, source, title, description, company, location, contract_type, salary,
	offer_date, industry, experience, education, latitude, longitude, url, collected_at,
	hard_skills_required, hard_skills_optional, soft_skills, languages_required, languages_optional`

const upsertOfferSQL = `INSERT INTO job_offers (` + offerColumns + `, collect_run_id, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,now())
ON CONFLICT (source, id) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	company = EXCLUDED.company,
	location = EXCLUDED.location,
	contract_type = EXCLUDED.contract_type,
	salary = EXCLUDED.salary,
	offer_date = EXCLUDED.offer_date,
	industry = EXCLUDED.industry,
	experience = EXCLUDED.experience,
	education = EXCLUDED.education,
	latitude = EXCLUDED.latitude,
	longitude = EXCLUDED.longitude,
	url = EXCLUDED.url,
	collected_at = EXCLUDED.collected_at,
	hard_skills_required = EXCLUDED.hard_skills_required,
	hard_skills_optional = EXCLUDED.hard_skills_optional,
	soft_skills = EXCLUDED.soft_skills,
	languages_required = EXCLUDED.languages_required,
	languages_optional = EXCLUDED.languages_optional,
	collect_run_id = EXCLUDED.collect_run_id,
	updated_at = now()`

// UpsertOffers writes offers in one transaction and returns how many rows
// were inserted or updated. Offers without an id or a known source are
// skipped.
func (r *PostgresOfferRepository) UpsertOffers(ctx context.Context, runID uuid.UUID, offers []offer.JobOffer) (int, error) {
	if r.db == nil {
		return 0, database.ErrNilDB
	}
	if len(offers) == 0 {
		return 0, nil
	}

	var run any
	if runID != uuid.Nil {
		run = runID
	}

	saved := 0
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, o := range offers {
			if strings.TrimSpace(o.ID) == "" || !o.Source.Valid() {
				continue
			}
			o = o.Normalize()
			collected := o.CollectedAt
			if collected.IsZero() {
				collected = time.Now().UTC()
			}
			n, err := tx.Exec(ctx, upsertOfferSQL,
				o.ID, string(o.Source), o.Title, o.Description, o.Company, o.Location, o.Contract, o.Salary,
				o.Date, o.Industry, o.Experience, o.Education, o.Latitude, o.Longitude, o.URL, collected,
				o.SkillsHardRequired, o.SkillsHardOptional, o.SkillsSoft, o.LanguagesRequired, o.LanguagesOptional,
				run,
			)
			if err != nil {
				return fmt.Errorf("upsert offer %s: %w", o.ID, err)
			}
			saved += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

func (r *PostgresOfferRepository) List(ctx context.Context, f OfferFilter) ([]offer.JobOffer, error) {
	limit := f.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + offerColumns + ` FROM job_offers`
	args := []any{}
	if f.Source != "" {
		args = append(args, string(f.Source))
		q += fmt.Sprintf(` WHERE source = $%d`, len(args))
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(` ORDER BY collected_at DESC, source, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	return r.query(ctx, q, args...)
}

// ListAll returns every stored offer, optionally restricted to one source,
// in a stable order suitable for analytics and market matching.
func (r *PostgresOfferRepository) ListAll(ctx context.Context, source offer.Source) ([]offer.JobOffer, error) {
	if source == "" {
		return r.query(ctx, `SELECT `+offerColumns+` FROM job_offers ORDER BY source DESC, id`)
	}
	return r.query(ctx, `SELECT `+offerColumns+` FROM job_offers WHERE source = $1 ORDER BY id`, string(source))
}

// GetByID loads the offer keyed by (source, id). With an empty source the id
// must belong to a single source, otherwise ErrAmbiguousOffer is returned.
func (r *PostgresOfferRepository) GetByID(ctx context.Context, source offer.Source, id string) (offer.JobOffer, error) {
	id = strings.TrimSpace(id)
	var (
		found []offer.JobOffer
		err   error
	)
	if source == "" {
		found, err = r.query(ctx, `SELECT `+offerColumns+` FROM job_offers WHERE id = $1 ORDER BY source LIMIT 2`, id)
	} else {
		found, err = r.query(ctx, `SELECT `+offerColumns+` FROM job_offers WHERE source = $1 AND id = $2`, string(source), id)
	}
	if err != nil {
		return offer.JobOffer{}, err
	}
	return pickOne(found)
}

func pickOne(found []offer.JobOffer) (offer.JobOffer, error) {
	switch len(found) {
	case 0:
		return offer.JobOffer{}, ErrOfferNotFound
	case 1:
		return found[0], nil
	default:
		return offer.JobOffer{}, ErrAmbiguousOffer
	}
}

func (r *PostgresOfferRepository) Count(ctx context.Context, source offer.Source) (int, error) {
	var row database.Row
	if source == "" {
		row = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM job_offers`)
	} else {
		row = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM job_offers WHERE source = $1`, string(source))
	}
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresOfferRepository) SourceStats(ctx context.Context) ([]offer.SourceStat, error) {
	rows, err := r.db.Query(ctx, `SELECT source, COUNT(*) AS total, MAX(collected_at) AS last FROM job_offers GROUP BY source ORDER BY total DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]offer.SourceStat, 0)
	for rows.Next() {
		var src string
		var total int
		var last sql.NullTime
		if err := rows.Scan(&src, &total, &last); err != nil {
			return nil, err
		}
		st := offer.SourceStat{Source: offer.Source(src), TotalOffers: total}
		if last.Valid {
			st.LastCollected = last.Time.UTC()
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOfferRepository) query(ctx context.Context, q string, args ...any) ([]offer.JobOffer, error) {
	if r.db == nil {
		return nil, database.ErrNilDB
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]offer.JobOffer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOffer(row database.Row) (offer.JobOffer, error) {
	var o offer.JobOffer
	var src string
	var collected sql.NullTime
	err := row.Scan(
		&o.ID, &src, &o.Title, &o.Description, &o.Company, &o.Location, &o.Contract, &o.Salary,
		&o.Date, &o.Industry, &o.Experience, &o.Education, &o.Latitude, &o.Longitude, &o.URL, &collected,
		&o.SkillsHardRequired, &o.SkillsHardOptional, &o.SkillsSoft, &o.LanguagesRequired, &o.LanguagesOptional,
	)
	if err != nil {
		return offer.JobOffer{}, err
	}
	o.Source = offer.Source(src)
	if collected.Valid {
		o.CollectedAt = collected.Time.UTC()
	}
	return o.Normalize(), nil
}

var _ OfferRepository = (*PostgresOfferRepository)(nil)
