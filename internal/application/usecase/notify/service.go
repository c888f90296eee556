package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"pricewatch/internal/application/port"
	"pricewatch/internal/application/usecase/tracker"
)

type Cycler interface {
	Cycle(ctx context.Context) *tracker.Report
}

type ServiceDeps struct {
	Tracker   Cycler
	Compose   func(*tracker.Report) string
	Notifiers []port.Notifier
}

// Service 每轮取价后把消息投递给所有 Notifier。投递失败只记录日志，不中断循环。
type Service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) *Service {
	return &Service{deps: deps}
}

// RunOnce runs one cycle and returns the number of successful deliveries.
func (s *Service) RunOnce(ctx context.Context) int {
	rep := s.deps.Tracker.Cycle(ctx)
	text := s.deps.Compose(rep)

	delivered := 0
	for _, n := range s.deps.Notifiers {
		if err := n.Send(ctx, text); err != nil {
			log.Error().Err(err).Str("notifier", n.Name()).Str("cycle", rep.ID).Msg("delivery failed")
			continue
		}
		delivered++
		log.Info().Str("notifier", n.Name()).Str("cycle", rep.ID).Bool("fetch_ok", rep.OK()).Msg("update delivered")
	}
	return delivered
}
