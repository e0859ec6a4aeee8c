package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/otpauth"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
)

type (
	NewInput struct {
		Name   string `validate:"required,otpname"`
		Digits int
		Period uint64
	}

	NewOutput struct {
		Name string
		// URI provisions the fresh secret on another authenticator or service.
		URI string
	}
)

// New creates a credential with a freshly generated random secret.
func (s *Usecase) New(ctx context.Context, in NewInput) (*NewOutput, error) {
	ctx, span := s.startSpan(ctx, "New")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	secret, err := s.totp.GenerateSecret(in.Name)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate secret", "name", in.Name, "error", err)
		return nil, goerror.NewServer(err)
	}

	cred := entity.NewCredential(secret, in.Digits, in.Period)
	if err := cred.Validate(); err != nil {
		return nil, s.mapError(ctx, err, "invalid credential", "name", in.Name)
	}

	err = s.store.Update(ctx, func(reg *entity.Registry) (bool, error) {
		return true, reg.Insert(in.Name, cred)
	})
	if err != nil {
		return nil, s.mapError(ctx, err, "failed to add credential", "name", in.Name)
	}

	uri := otpauth.Format(in.Name, otpauth.Key{
		Secret: cred.Secret,
		Digits: cred.Digits,
		Period: cred.Period,
		Issuer: s.cfg.GetString("otp.issuer"),
	})

	slog.InfoContext(ctx, "credential created", "name", in.Name)
	return &NewOutput{Name: in.Name, URI: uri}, nil
}
