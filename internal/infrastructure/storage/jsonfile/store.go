package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"pricewatch/internal/application/port"
	"pricewatch/internal/domain"
)

// Store 把记忆价格保存为一个扁平 JSON 文件：
//
//	{"BTC": {"usd": 86000.12, "gbp": 67000}, "ETH": {"usd": 2800.5}}
//
// 每次 Load 完整读取，每次 Save 完整覆盖。没有锁，多个写者时以最后一次写入为准。
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns an empty baseline when the file is missing or corrupt.
func (s *Store) Load(ctx context.Context) (domain.Baseline, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewBaseline(), nil
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var raw map[string]map[string]json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("snapshot file corrupt, starting from empty baseline")
		return domain.NewBaseline(), nil
	}

	b := domain.NewBaseline()
	for ticker, byCur := range raw {
		for code, n := range byCur {
			p, err := decimal.NewFromString(n.String())
			if err != nil {
				log.Warn().Err(err).Str("ticker", ticker).Str("currency", code).Msg("skip unreadable remembered price")
				continue
			}
			b.Set(ticker, code, p)
		}
	}
	return b, nil
}

func (s *Store) Save(ctx context.Context, b domain.Baseline) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	raw := make(map[string]map[string]json.Number, len(b))
	for _, e := range b.Entries() {
		byCur, ok := raw[e.Ticker]
		if !ok {
			byCur = make(map[string]json.Number)
			raw[e.Ticker] = byCur
		}
		byCur[e.Currency] = json.Number(e.Price.String())
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

var _ port.SnapshotStore = (*Store)(nil)
