package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"pricewatch/internal/application/port"
	"pricewatch/internal/domain"
)

// Repo 记忆价格的 SQLite 实现：每个 (ticker, currency) 只保留最新一条。
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db, now: time.Now}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS latest_prices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ticker TEXT NOT NULL,
  currency TEXT NOT NULL,
  price TEXT NOT NULL,
  ts_ms INTEGER NOT NULL,
  created_at INTEGER NOT NULL,
  UNIQUE(ticker, currency)
);
CREATE INDEX IF NOT EXISTS idx_latest_prices_ticker ON latest_prices(ticker);
`)
	return err
}

// Load 读取全部记忆价格。price 以 TEXT 保存，保持 API 给出的精度。
func (r *Repo) Load(ctx context.Context) (domain.Baseline, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ticker, currency, price FROM latest_prices`)
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

// Save 逐条 upsert，baseline 中没有的组合保留原值。
func (r *Repo) Save(ctx context.Context, b domain.Baseline) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := r.now().UnixMilli()
	for _, e := range b.Entries() {
		if err := upsert(ctx, tx, e.Ticker, e.Currency, e.Price, ts); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, ticker, currency string, price decimal.Decimal, ts int64) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO latest_prices(ticker, currency, price, ts_ms, created_at) 
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(ticker, currency) DO UPDATE SET
		price=excluded.price, ts_ms=excluded.ts_ms
	`, ticker, currency, price.String(), ts, ts)
	return err
}

var _ port.SnapshotStore = (*Repo)(nil)
