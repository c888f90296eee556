package poller

import (
	"context"
	"time"
)

// Run 立即执行一次 fn，之后每个 interval 执行一次，直到 ctx 结束。
// fn 执行完成后才会进入下一轮；慢的一轮只会推迟下一次触发。
func Run(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	if interval <= 0 {
		interval = time.Minute
	}

	fn(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fn(ctx)
		}
	}
}
