package app

import (
	"context"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/vault"
)

func (a *App) initModules(_ context.Context, _ []string) error {
	if a.storePath() == "" {
		return goerror.NewInvalidInput(nil, "store", "store path must not be empty")
	}

	if err := vault.New(vault.Dependency{
		Root:       a.root,
		Config:     a.config,
		Instrument: a.ins,
		Clock:      a.clock,
		Totp:       a.totp,
		Clipboard:  a.clipboard,
		Validator:  a.validator,
	}); err != nil {
		return goerror.NewServer(err)
	}

	return nil
}
