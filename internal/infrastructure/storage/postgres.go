package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/wardrobe/backend/internal/domain"
)

const garmentsTable = "garments"

const schema = `
CREATE TABLE IF NOT EXISTS garments (
    id                      UUID PRIMARY KEY,
    image_url               TEXT NOT NULL DEFAULT '',
    original_text           TEXT NOT NULL,
    price                   DOUBLE PRECISION,
    category                JSONB NOT NULL,
    category_name           TEXT NOT NULL,
    colors                  JSONB NOT NULL DEFAULT '[]',
    fabrics                 JSONB NOT NULL DEFAULT '[]',
    styles                  JSONB NOT NULL DEFAULT '[]',
    search_terms            TEXT[] NOT NULL DEFAULT '{}',
    confidence_score        DOUBLE PRECISION NOT NULL,
    needs_review            BOOLEAN NOT NULL,
    tier                    TEXT NOT NULL DEFAULT '',
    authenticity_confidence TEXT NOT NULL DEFAULT '',
    quality_score           INTEGER NOT NULL,
    quality_bucket          TEXT NOT NULL,
    created_at              TIMESTAMPTZ NOT NULL,
    updated_at              TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS garments_category_idx ON garments (category_name);
CREATE INDEX IF NOT EXISTS garments_bucket_idx ON garments (quality_bucket);
CREATE INDEX IF NOT EXISTS garments_search_terms_idx ON garments USING GIN (search_terms);
CREATE INDEX IF NOT EXISTS garments_created_idx ON garments (created_at DESC);
`

var garmentColumns = []string{
	"id", "image_url", "original_text", "price", "category", "colors", "fabrics", "styles",
	"search_terms", "confidence_score", "needs_review", "tier", "authenticity_confidence",
	"quality_score", "quality_bucket", "created_at", "updated_at",
}

var upsertColumns = append(append([]string{}, garmentColumns...), "category_name")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists garments into Postgres
type PostgresRepository struct {
	db *sql.DB
}

var _ domain.GarmentRepository = (*PostgresRepository)(nil)

// OpenPostgres opens a pooled connection and verifies it with a ping
func OpenPostgres(dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns / 2)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}

// NewPostgresRepository wires a sql.DB implementation
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the garments table and its indexes when missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: ensure schema: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

// Save upserts a garment
func (r *PostgresRepository) Save(ctx context.Context, garment *domain.Garment) error {
	if garment == nil {
		return domain.ErrInvalidRequest
	}

	query, args, err := buildUpsertQuery(garment)
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert garment: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

// GetByID returns the garment with the given id
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Garment, error) {
	query, args, err := psql.Select(garmentColumns...).
		From(garmentsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	g, err := scanGarment(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGarmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get garment: %v", domain.ErrStorageFailure, err)
	}
	return g, nil
}

// List returns a page of garments matching the filter, newest first
func (r *PostgresRepository) List(ctx context.Context, filter domain.GarmentFilter) ([]domain.Garment, error) {
	query, args, err := buildListQuery(filter.WithDefaults())
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list garments: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	result := make([]domain.Garment, 0)
	for rows.Next() {
		g, err := scanGarment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan garment: %v", domain.ErrStorageFailure, err)
		}
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %v", domain.ErrStorageFailure, err)
	}
	return result, nil
}

// Delete removes a garment
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete(garmentsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: delete garment: %v", domain.ErrStorageFailure, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrGarmentNotFound
	}
	return nil
}

func buildUpsertQuery(g *domain.Garment) (string, []interface{}, error) {
	category, err := json.Marshal(g.Category)
	if err != nil {
		return "", nil, err
	}
	colors, err := marshalAttributes(g.Colors)
	if err != nil {
		return "", nil, err
	}
	fabrics, err := marshalAttributes(g.Fabrics)
	if err != nil {
		return "", nil, err
	}
	styles, err := marshalAttributes(g.Styles)
	if err != nil {
		return "", nil, err
	}

	return psql.Insert(garmentsTable).
		Columns(upsertColumns...).
		Values(
			g.ID.String(), g.ImageURL, g.OriginalText, g.Price, string(category), colors, fabrics, styles,
			pq.StringArray(g.SearchTerms), g.ConfidenceScore, g.NeedsReview, g.Tier,
			g.AuthenticityConfidence, g.QualityScore, g.QualityBucket, g.CreatedAt, g.UpdatedAt,
			g.Category.Name,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
            image_url = EXCLUDED.image_url,
            original_text = EXCLUDED.original_text,
            price = EXCLUDED.price,
            category = EXCLUDED.category,
            category_name = EXCLUDED.category_name,
            colors = EXCLUDED.colors,
            fabrics = EXCLUDED.fabrics,
            styles = EXCLUDED.styles,
            search_terms = EXCLUDED.search_terms,
            confidence_score = EXCLUDED.confidence_score,
            needs_review = EXCLUDED.needs_review,
            tier = EXCLUDED.tier,
            authenticity_confidence = EXCLUDED.authenticity_confidence,
            quality_score = EXCLUDED.quality_score,
            quality_bucket = EXCLUDED.quality_bucket,
            updated_at = EXCLUDED.updated_at`).
		ToSql()
}

func buildListQuery(f domain.GarmentFilter) (string, []interface{}, error) {
	q := psql.Select(garmentColumns...).From(garmentsTable)

	if f.Category != "" {
		q = q.Where(sq.Eq{"category_name": f.Category})
	}
	if f.Color != "" {
		q = q.Where(sq.Expr("colors @> ?::jsonb", attributeContains(f.Color)))
	}
	if f.Fabric != "" {
		q = q.Where(sq.Expr("fabrics @> ?::jsonb", attributeContains(f.Fabric)))
	}
	if f.Bucket != "" {
		q = q.Where(sq.Eq{"quality_bucket": f.Bucket})
	}
	if f.MinQuality > 0 {
		q = q.Where(sq.GtOrEq{"quality_score": f.MinQuality})
	}
	if f.NeedsReview != nil {
		q = q.Where(sq.Eq{"needs_review": *f.NeedsReview})
	}
	if f.Search != "" {
		q = q.Where(sq.Or{
			sq.Expr("? = ANY(search_terms)", f.Search),
			sq.ILike{"original_text": "%" + escapeLike(f.Search) + "%"},
		})
	}

	return q.OrderBy("created_at DESC", "id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
}

// likeEscaper makes user input match literally under LIKE's default backslash escape
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// attributeContains renders the JSONB containment probe for one attribute name
func attributeContains(name string) string {
	raw, _ := json.Marshal([]map[string]string{{"name": name}})
	return string(raw)
}

// marshalAttributes encodes attributes as JSON text; lib/pq would send []byte as bytea
func marshalAttributes(attrs []domain.Attribute) (string, error) {
	if attrs == nil {
		attrs = []domain.Attribute{}
	}
	raw, err := json.Marshal(attrs)
	return string(raw), err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGarment(row rowScanner) (*domain.Garment, error) {
	var (
		g                              domain.Garment
		id                             string
		price                          sql.NullFloat64
		category, colors, fabrics, sty []byte
		terms                          pq.StringArray
	)

	err := row.Scan(
		&id, &g.ImageURL, &g.OriginalText, &price, &category, &colors, &fabrics, &sty,
		&terms, &g.ConfidenceScore, &g.NeedsReview, &g.Tier, &g.AuthenticityConfidence,
		&g.QualityScore, &g.QualityBucket, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := g.ID.UnmarshalText([]byte(id)); err != nil {
		return nil, fmt.Errorf("parsing id %q: %w", id, err)
	}
	if price.Valid {
		v := price.Float64
		g.Price = &v
	}
	if err := json.Unmarshal(category, &g.Category); err != nil {
		return nil, fmt.Errorf("decoding category: %w", err)
	}
	for _, col := range []struct {
		raw  []byte
		dest *[]domain.Attribute
	}{{colors, &g.Colors}, {fabrics, &g.Fabrics}, {sty, &g.Styles}} {
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, fmt.Errorf("decoding attributes: %w", err)
		}
	}
	g.SearchTerms = []string(terms)

	return &g, nil
}
