package vault

import (
	"log/slog"

	"github.com/shandysiswandi/twofa/internal/pkg/clipboard"
	"github.com/shandysiswandi/twofa/internal/pkg/clock"
	"github.com/shandysiswandi/twofa/internal/pkg/config"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/pkg/validator"
	"github.com/shandysiswandi/twofa/internal/vault/inbound"
	"github.com/shandysiswandi/twofa/internal/vault/outbound/file"
	"github.com/shandysiswandi/twofa/internal/vault/usecase"
	"github.com/spf13/cobra"
)

type Dependency struct {
	Root       *cobra.Command             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	Clipboard  clipboard.Writer           `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store := file.NewStore(
		dep.Config.GetString("store.path"),
		dep.Config.GetSecond("store.lock_timeout_seconds"),
		dep.Instrument,
	)
	slog.Debug("credential store configured", "path", store.Path())

	uc := usecase.New(usecase.Dependency{
		Store:      store,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Totp:       dep.Totp,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterCLIEndpoint(dep.Root, uc, dep.Clipboard, dep.Config)

	return nil
}
