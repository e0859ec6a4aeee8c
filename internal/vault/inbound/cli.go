package inbound

import (
	"context"
	"iter"

	"github.com/shandysiswandi/twofa/internal/pkg/clipboard"
	"github.com/shandysiswandi/twofa/internal/pkg/config"
	"github.com/shandysiswandi/twofa/internal/vault/usecase"
	"github.com/spf13/cobra"
)

type uc interface {
	Add(ctx context.Context, in usecase.AddInput) (*usecase.AddOutput, error)
	Remove(ctx context.Context, in usecase.RemoveInput) error
	Rename(ctx context.Context, in usecase.RenameInput) (*usecase.RenameOutput, error)

	Get(ctx context.Context, in usecase.GetInput) (*usecase.GetOutput, error)
	List(ctx context.Context) (iter.Seq[usecase.ListItem], error)

	Import(ctx context.Context, in usecase.ImportInput) (*usecase.ImportOutput, error)
	Export(ctx context.Context) (*usecase.ExportOutput, error)
	New(ctx context.Context, in usecase.NewInput) (*usecase.NewOutput, error)
}

// RegisterCLIEndpoint attaches the credential commands to root.
func RegisterCLIEndpoint(root *cobra.Command, uc uc, clip clipboard.Writer, cfg config.Config) {
	end := &CLIEndpoint{uc: uc, clip: clip, cfg: cfg}

	root.AddCommand(
		end.addCommand(),
		end.removeCommand(),
		end.renameCommand(),
		end.listCommand(),
		end.getCommand(),
		end.importCommand(),
		end.exportCommand(),
		end.newCommand(),
	)
}
