package usecase

import (
	"context"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
)

type (
	GetInput struct {
		Name string `validate:"required,otpname"`
	}

	GetOutput struct {
		Name             string
		Code             string
		SecondsRemaining uint64
	}
)

// Get returns the code currently valid for one credential.
func (s *Usecase) Get(ctx context.Context, in GetInput) (*GetOutput, error) {
	ctx, span := s.startSpan(ctx, "Get")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var cred entity.Credential
	err := s.store.View(ctx, func(reg *entity.Registry) (err error) {
		cred, err = reg.Get(in.Name)
		return err
	})
	if err != nil {
		return nil, s.mapError(ctx, err, "failed to get credential", "name", in.Name)
	}

	code, remaining, err := s.code(ctx, cred)
	if err != nil {
		return nil, s.mapError(ctx, err, "failed to compute code", "name", in.Name)
	}

	return &GetOutput{Name: in.Name, Code: code, SecondsRemaining: remaining}, nil
}
