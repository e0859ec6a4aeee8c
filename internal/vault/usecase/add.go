package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/otpauth"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
)

type (
	// AddInput describes a credential to store. When Key is an otpauth URI
	// the name and parameters come from the URI and Name, Digits and Period
	// are ignored.
	AddInput struct {
		Name   string
		Key    string `validate:"required"`
		Digits int
		Period uint64
	}

	addNameInput struct {
		Name string `validate:"required,otpname"`
	}

	AddOutput struct {
		Name string
		// IgnoredAlgorithm is set when the URI requested a hash other than SHA1.
		IgnoredAlgorithm string
	}
)

func (s *Usecase) Add(ctx context.Context, in AddInput) (*AddOutput, error) {
	ctx, span := s.startSpan(ctx, "Add")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	out := &AddOutput{Name: in.Name}
	cred := entity.NewCredential(in.Key, in.Digits, in.Period)

	if otpauth.IsURI(in.Key) {
		name, key, err := otpauth.Parse(in.Key)
		if err != nil {
			return nil, s.mapError(ctx, err, "failed to parse otpauth uri")
		}

		out.Name = name
		out.IgnoredAlgorithm = key.IgnoredAlgorithm
		cred = entity.NewCredential(key.Secret, key.Digits, key.Period)
	} else if err := s.validator.Validate(addNameInput{Name: in.Name}); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if out.IgnoredAlgorithm != "" {
		slog.WarnContext(ctx, "ignoring unsupported algorithm, codes use SHA1",
			"name", out.Name, "algorithm", out.IgnoredAlgorithm)
	}

	if err := cred.Validate(); err != nil {
		return nil, s.mapError(ctx, err, "invalid credential", "name", out.Name)
	}

	err := s.store.Update(ctx, func(reg *entity.Registry) (bool, error) {
		return true, reg.Insert(out.Name, cred)
	})
	if err != nil {
		return nil, s.mapError(ctx, err, "failed to add credential", "name", out.Name)
	}

	slog.InfoContext(ctx, "credential added", "name", out.Name)
	return out, nil
}
