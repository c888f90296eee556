package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"pricewatch/internal/application/port"
	"pricewatch/internal/domain"
)

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r, err := NewWithDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// NewWithDB wraps an already opened database and runs the migration.
func NewWithDB(db *sql.DB) (*Repo, error) {
	r := &Repo{db: db, now: time.Now}
	if err := r.migrate(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS latest_prices (
  ticker TEXT NOT NULL,
  currency TEXT NOT NULL,
  price NUMERIC NOT NULL,
  ts_ms BIGINT NOT NULL,
  PRIMARY KEY (ticker, currency)
);
`)
	return err
}

func (r *Repo) Load(ctx context.Context) (domain.Baseline, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ticker, currency, price::text FROM latest_prices`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	b := domain.NewBaseline()
	for rows.Next() {
		var ticker, currency, price string
		if err := rows.Scan(&ticker, &currency, &price); err != nil {
			return nil, err
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("bad price for %s:%s: %w", ticker, currency, err)
		}
		b.Set(ticker, currency, p)
	}
	return b, rows.Err()
}

func (r *Repo) Save(ctx context.Context, b domain.Baseline) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := r.now().UnixMilli()
	for _, e := range b.Entries() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO latest_prices(ticker, currency, price, ts_ms)
			VALUES($1, $2, $3, $4)
			ON CONFLICT(ticker, currency) DO UPDATE SET
			price=excluded.price, ts_ms=excluded.ts_ms
		`, e.Ticker, e.Currency, e.Price.String(), ts)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

var _ port.SnapshotStore = (*Repo)(nil)
