package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/twofa/internal/pkg/clock"
	"github.com/shandysiswandi/twofa/internal/pkg/config"
	"github.com/shandysiswandi/twofa/internal/pkg/filelock"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/pkg/otpauth"
	"github.com/shandysiswandi/twofa/internal/pkg/validator"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

type repoStore interface {
	Load(ctx context.Context) (*entity.Registry, error)
	View(ctx context.Context, fn func(reg *entity.Registry) error) error
	Update(ctx context.Context, fn func(reg *entity.Registry) (bool, error)) error
}

type Usecase struct {
	store     repoStore
	validator validator.Validator
	cfg       config.Config
	totp      otp.OTP
	clock     clock.Clocker
	ins       instrument.Instrumentation
	generated metric.Int64Counter
}

type Dependency struct {
	Store      repoStore
	Validator  validator.Validator
	Config     config.Config
	Totp       otp.OTP
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	generated, err := dep.Instrument.Meter("vault.usecase").Int64Counter(
		"twofa.codes.generated",
		metric.WithDescription("Number of one-time codes computed."),
	)
	if err != nil {
		slog.Warn("failed to create code counter", "error", err)
		generated = metricnoop.Int64Counter{}
	}

	return &Usecase{
		store:     dep.Store,
		validator: dep.Validator,
		cfg:       dep.Config,
		totp:      dep.Totp,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		generated: generated,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("vault.usecase").Start(ctx, name)
}

func (s *Usecase) now() int64 {
	return s.clock.Now().Unix()
}

// code computes the current TOTP for cred.
func (s *Usecase) code(ctx context.Context, cred entity.Credential) (string, uint64, error) {
	now := s.now()

	code, err := s.totp.TOTP(cred.Secret, cred.Digits, cred.Period, now)
	if err != nil {
		return "", 0, err
	}
	s.generated.Add(ctx, 1)

	return code, s.totp.SecondsRemaining(cred.Period, now), nil
}

// mapError translates domain and infrastructure failures into goerror values.
// The wrapped error stays in the chain so errors.Is keeps working.
func (s *Usecase) mapError(ctx context.Context, err error, msg string, args ...any) error {
	var gerr *goerror.Error
	switch {
	case err == nil:
		return nil

	case errors.As(err, &gerr):
		return err

	case errors.Is(err, entity.ErrNotFound):
		slog.WarnContext(ctx, msg, append(args, "error", err)...)
		return goerror.NewBusiness(err, "credential not found", goerror.CodeNotFound)

	case errors.Is(err, entity.ErrDuplicateName):
		slog.WarnContext(ctx, msg, append(args, "error", err)...)
		return goerror.NewBusiness(err, "credential already exists", goerror.CodeConflict)

	case errors.Is(err, entity.ErrInvalidName),
		errors.Is(err, otp.ErrConfig),
		errors.Is(err, otpauth.ErrMalformedParameter):
		slog.WarnContext(ctx, msg, append(args, "error", err)...)
		return goerror.NewInvalidInput(err)

	case errors.Is(err, otp.ErrDecode),
		errors.Is(err, otpauth.ErrMalformedURI),
		errors.Is(err, otpauth.ErrMissingSecret),
		errors.Is(err, otpauth.ErrUnsupportedMode):
		slog.WarnContext(ctx, msg, append(args, "error", err)...)
		return goerror.NewInvalidFormat(err)

	case errors.Is(err, entity.ErrCorruptStore):
		slog.ErrorContext(ctx, msg, append(args, "error", err)...)
		return goerror.NewBusiness(err, "credential store is corrupt", goerror.CodeCorrupt)

	case errors.Is(err, filelock.ErrLocked),
		errors.Is(err, context.DeadlineExceeded):
		slog.ErrorContext(ctx, msg, append(args, "error", err)...)
		return goerror.NewTimeout(err)

	default:
		slog.ErrorContext(ctx, msg, append(args, "error", err)...)
		return goerror.NewServer(err)
	}
}
