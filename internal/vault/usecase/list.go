package usecase

import (
	"context"
	"iter"
	"log/slog"
)

type (
	// ListItem is one row of List. Err is set instead of Code when the
	// stored credential cannot produce a code.
	ListItem struct {
		Name             string
		Code             string
		SecondsRemaining uint64
		Err              error
	}
)

// List loads the registry once and returns its credentials in name order.
// Codes are computed lazily from the clock on every pass over the sequence.
func (s *Usecase) List(ctx context.Context) (iter.Seq[ListItem], error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	reg, err := s.store.Load(ctx)
	if err != nil {
		return nil, s.mapError(ctx, err, "failed to load registry")
	}

	return func(yield func(ListItem) bool) {
		for name, cred := range reg.All() {
			item := ListItem{Name: name}
			item.Code, item.SecondsRemaining, item.Err = s.code(ctx, cred)
			if item.Err != nil {
				slog.WarnContext(ctx, "failed to compute code", "name", name, "error", item.Err)
			}

			if !yield(item) {
				return
			}
		}
	}, nil
}
