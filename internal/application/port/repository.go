package port

import (
	"context"

	"pricewatch/internal/domain"
)

// SnapshotStore 记忆价格存储。每轮开始整体读取一次，结束时整体写回一次。
type SnapshotStore interface {
	// Load returns the remembered prices. A missing backing record yields an empty baseline.
	Load(ctx context.Context) (domain.Baseline, error)
	// Save replaces the remembered prices.
	Save(ctx context.Context, b domain.Baseline) error
	// Connection management
	Close() error
}
