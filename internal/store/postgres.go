package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres is a Store backed by PostgreSQL via the pgx stdlib driver.
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects to the database at connString and brings the schema
// up to date before returning.
func NewPostgres(connString string) (*Postgres, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	db := stdlib.OpenDB(*cfg)
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Postgres{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration setup: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, tx *models.Transaction) (string, error) {
	if tx.ID == "" {
		id := uuid.NewString()
		_, err := p.db.ExecContext(ctx, `
			INSERT INTO transactions
				(id, ts, description, amount_pence, category_1, category_2, category_3, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, tx.Timestamp, tx.Description, tx.AmountPence,
			tx.Category1, tx.Category2, tx.Category3, tx.Notes)
		if err != nil {
			return "", fmt.Errorf("failed to insert transaction: %w", err)
		}
		return id, nil
	}

	res, err := p.db.ExecContext(ctx, `
		UPDATE transactions
		SET ts = $2, description = $3, amount_pence = $4,
		    category_1 = $5, category_2 = $6, category_3 = $7, notes = $8
		WHERE id = $1`,
		tx.ID, tx.Timestamp, tx.Description, tx.AmountPence,
		tx.Category1, tx.Category2, tx.Category3, tx.Notes)
	if err != nil {
		return "", fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return "", fmt.Errorf("transaction not found: %s", tx.ID)
	}
	return tx.ID, nil
}

func (p *Postgres) Has(ctx context.Context, tx *models.Transaction) (bool, error) {
	var count int
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE ts = $1 AND description = $2 AND amount_pence = $3`,
		tx.Timestamp, tx.Description, tx.AmountPence).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for transaction: %w", err)
	}
	return count > 0, nil
}

func (p *Postgres) List(ctx context.Context, f Filter) ([]*models.Transaction, error) {
	where, params := buildWhere(f)
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, ts, description, amount_pence, category_1, category_2, category_3, notes
		FROM transactions WHERE `+where+` ORDER BY ts, id`, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Timestamp, &tx.Description, &tx.AmountPence,
			&tx.Category1, &tx.Category2, &tx.Category3, &tx.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}

func (p *Postgres) SumPence(ctx context.Context, f Filter) (int64, error) {
	where, params := buildWhere(f)
	var sum int64
	err := p.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_pence), 0) FROM transactions WHERE `+where, params...).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return sum, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// buildWhere renders a Filter as an AND-joined condition with positional
// parameters.
func buildWhere(f Filter) (string, []any) {
	conditions := []string{"TRUE"}
	var params []any
	next := func() string { return fmt.Sprintf("$%d", len(params)) }

	if f.Untagged {
		conditions = append(conditions, "category_1 = '' AND category_2 = '' AND category_3 = ''")
	}
	if f.Category != "" {
		params = append(params, f.Category)
		n := next()
		conditions = append(conditions,
			fmt.Sprintf("(category_1 = %s OR category_2 = %s OR category_3 = %s)", n, n, n))
	}
	if f.Description != "" {
		params = append(params, "%"+strings.ToLower(f.Description)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(description) LIKE %s", next()))
	}
	return strings.Join(conditions, " AND "), params
}
