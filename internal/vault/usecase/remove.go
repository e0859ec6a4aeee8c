package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
)

type (
	RemoveInput struct {
		Name string `validate:"required,otpname"`
	}
)

func (s *Usecase) Remove(ctx context.Context, in RemoveInput) error {
	ctx, span := s.startSpan(ctx, "Remove")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.store.Update(ctx, func(reg *entity.Registry) (bool, error) {
		return true, reg.Remove(in.Name)
	})
	if err != nil {
		return s.mapError(ctx, err, "failed to remove credential", "name", in.Name)
	}

	slog.InfoContext(ctx, "credential removed", "name", in.Name)
	return nil
}
