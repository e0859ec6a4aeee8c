package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
)

type (
	RenameInput struct {
		Name    string `validate:"required,otpname"`
		NewName string `validate:"required,otpname"`
	}

	RenameOutput struct {
		// Changed is false when the credential already had the new name.
		Changed bool
	}
)

func (s *Usecase) Rename(ctx context.Context, in RenameInput) (*RenameOutput, error) {
	ctx, span := s.startSpan(ctx, "Rename")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	out := &RenameOutput{}
	err := s.store.Update(ctx, func(reg *entity.Registry) (bool, error) {
		changed, err := reg.Rename(in.Name, in.NewName)
		out.Changed = changed
		return changed, err
	})
	if err != nil {
		return nil, s.mapError(ctx, err, "failed to rename credential", "name", in.Name, "new_name", in.NewName)
	}

	slog.InfoContext(ctx, "credential renamed", "name", in.Name, "new_name", in.NewName, "changed", out.Changed)
	return out, nil
}
