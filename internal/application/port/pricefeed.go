package port

import (
	"context"

	"pricewatch/internal/domain"
)

// PriceFetcher 一次网络请求取回所有币种/法币的价格。
// 返回 error 表示本轮没有数据，调用方把它当作正常结果处理。
type PriceFetcher interface {
	Fetch(ctx context.Context, coins []domain.Coin, currencies []domain.Currency) (domain.Snapshot, error)
}
