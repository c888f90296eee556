package composite

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"pricewatch/internal/application/port"
	"pricewatch/internal/domain"
)

// Repo 组合多个 SnapshotStore：按顺序读取第一个成功的，写入时写全部。
type Repo struct {
	repos []port.SnapshotStore
}

func New(repos ...port.SnapshotStore) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.SnapshotStore, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) Load(ctx context.Context) (domain.Baseline, error) {
	var errs []error
	for i, repo := range r.repos {
		b, err := repo.Load(ctx)
		if err == nil {
			return b, nil
		}
		log.Warn().Err(err).Int("store", i).Msg("load failed, trying next store")
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return domain.NewBaseline(), nil
	}
	return nil, errors.Join(errs...)
}

func (r *Repo) Save(ctx context.Context, b domain.Baseline) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Save(ctx, b); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.SnapshotStore = (*Repo)(nil)
