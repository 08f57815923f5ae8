package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frenchcercle/cercle/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository connects and pings the database
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	poolConfig.MaxConns = 25
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	}
	poolConfig.MinConns = 5
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	}
	poolConfig.MaxConnLifetime = 30 * time.Minute
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Pool exposes the connection pool for migrations
func (r *PostgresRepository) Pool() *pgxpool.Pool {
	return r.pool
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

const registrantColumns = `id, first_name, last_name, email, course_interest, level, type, status, to_char(date, 'YYYY-MM-DD'), created_at`

// CreateRegistrant inserts a registrant. The database assigns the id and
// the creation time; status is forced to PENDING.
func (r *PostgresRepository) CreateRegistrant(ctx context.Context, nr models.NewRegistrant) (*models.Registrant, error) {
	query := `
		INSERT INTO registrants (first_name, last_name, email, course_interest, level, type, status, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, to_date($8, 'YYYY-MM-DD'))
		RETURNING ` + registrantColumns

	in := toRow(pendingRegistrant(nr))

	row := registrantRow{}
	var id int64
	err := r.pool.QueryRow(ctx, query,
		in.FirstName,
		in.LastName,
		in.Email,
		in.CourseInterest,
		in.Level,
		in.Type,
		in.Status,
		in.Date,
	).Scan(
		&id,
		&row.FirstName,
		&row.LastName,
		&row.Email,
		&row.CourseInterest,
		&row.Level,
		&row.Type,
		&row.Status,
		&row.Date,
		&row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registrant: %w", err)
	}
	row.ID = strconv.FormatInt(id, 10)

	reg := fromRow(row)
	return &reg, nil
}

// ListRegistrants returns all registrants ordered by creation time, newest
// first
func (r *PostgresRepository) ListRegistrants(ctx context.Context) ([]models.Registrant, error) {
	query := `SELECT ` + registrantColumns + ` FROM registrants ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrants: %w", err)
	}
	defer rows.Close()

	out := make([]models.Registrant, 0)
	for rows.Next() {
		var row registrantRow
		var id int64
		if err := rows.Scan(
			&id,
			&row.FirstName,
			&row.LastName,
			&row.Email,
			&row.CourseInterest,
			&row.Level,
			&row.Type,
			&row.Status,
			&row.Date,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registrant: %w", err)
		}
		row.ID = strconv.FormatInt(id, 10)
		out = append(out, fromRow(row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrants: %w", err)
	}
	return out, nil
}
