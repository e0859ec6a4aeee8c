package inbound

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shandysiswandi/twofa/internal/pkg/clipboard"
	"github.com/shandysiswandi/twofa/internal/pkg/config"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/vault/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const maxLineSize = 1 << 20

// CLIEndpoint exposes the credential use cases as cobra commands.
type CLIEndpoint struct {
	uc   uc
	clip clipboard.Writer
	cfg  config.Config
}

// legacyFlagNames accepts --size, the historical name of --digits.
func legacyFlagNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "size" {
		name = "digits"
	}

	return pflag.NormalizedName(name)
}

func (h *CLIEndpoint) paramFlags(cmd *cobra.Command, digits *int, period *uint64) {
	cmd.Flags().IntVarP(digits, "digits", "s", h.cfg.GetInt("otp.default_digits"), "number of digits in a code (1-9)")
	cmd.Flags().Uint64VarP(period, "period", "p", h.cfg.GetUint64("otp.default_period"), "seconds each code stays valid")
	cmd.Flags().SetNormalizeFunc(legacyFlagNames)
}

func (h *CLIEndpoint) addCommand() *cobra.Command {
	var in usecase.AddInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a credential from a Base32 secret or an otpauth:// URI",
		Example: "  twofa add -n github -k JBSWY3DPEHPK3PXP\n" +
			"  twofa add -k 'otpauth://totp/ACME:alice?secret=JBSWY3DPEHPK3PXP&digits=8'",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := h.uc.Add(cmd.Context(), in)
			if err != nil {
				return err
			}

			if out.IgnoredAlgorithm != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: algorithm %s is not supported, codes are computed with SHA1\n", out.IgnoredAlgorithm)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "TOTP added: %s\n", out.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "credential name (ignored for otpauth URIs)")
	cmd.Flags().StringVarP(&in.Key, "key", "k", "", "Base32 secret or otpauth:// URI")
	h.paramFlags(cmd, &in.Digits, &in.Period)
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func (h *CLIEndpoint) removeCommand() *cobra.Command {
	var in usecase.RemoveInput

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   "Delete a credential",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := h.uc.Remove(cmd.Context(), in); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "TOTP removed: %s\n", in.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "credential name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (h *CLIEndpoint) renameCommand() *cobra.Command {
	var in usecase.RenameInput

	cmd := &cobra.Command{
		Use:     "rename",
		Aliases: []string{"mv"},
		Short:   "Rename a credential without touching its secret",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := h.uc.Rename(cmd.Context(), in)
			if err != nil {
				return err
			}

			if !out.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "TOTP unchanged: %s\n", in.Name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "TOTP renamed: %s -> %s\n", in.Name, in.NewName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "current credential name")
	cmd.Flags().StringVarP(&in.NewName, "to", "t", "", "new credential name")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (h *CLIEndpoint) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the current code of every credential",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := h.uc.List(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for item := range items {
				if item.Err != nil {
					fmt.Fprintf(w, "%s: error: %v\n", item.Name, item.Err)
					continue
				}
				fmt.Fprintf(w, "%s: %s (next code in %ds)\n", item.Name, item.Code, item.SecondsRemaining)
			}

			return nil
		},
	}
}

func (h *CLIEndpoint) getCommand() *cobra.Command {
	var (
		in        usecase.GetInput
		printOnly bool
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Copy the current code of a credential to the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := h.uc.Get(cmd.Context(), in)
			if err != nil {
				return err
			}

			if !printOnly && h.cfg.GetBool("clipboard.enabled") {
				err := h.clip.Write(out.Code)
				if err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Copied to clipboard!")
					return nil
				}

				slog.WarnContext(cmd.Context(), "failed to write clipboard", "error", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (next code in %ds)\n", out.Code, out.SecondsRemaining)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "credential name")
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the code instead of copying it")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (h *CLIEndpoint) importCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add every otpauth:// URI found in a file, one per line",
		Long: "Reads lines from FILE (or standard input when FILE is - or omitted).\n" +
			"Lines that are not otpauth:// URIs are skipped. Valid URIs are saved even\n" +
			"when other lines fail; failures are listed by line number.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lines, err := readLines(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			out, err := h.uc.Import(cmd.Context(), usecase.ImportInput{Lines: lines})
			if err != nil {
				return err
			}

			for _, w := range out.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "line %d: warning: %v\n", w.Line, w.Err)
			}
			for _, f := range out.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %v\n", f.Line, f.Err)
			}
			for _, name := range out.Imported {
				fmt.Fprintf(cmd.OutOrStdout(), "TOTP added: %s\n", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d, failed %d\n",
				len(out.Imported), out.Skipped, len(out.Failures))

			if len(out.Failures) > 0 {
				return goerror.NewBusiness(nil, fmt.Sprintf("%d line(s) could not be imported", len(out.Failures)), goerror.CodeInvalidInput)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "file to read, - for standard input")

	return cmd
}

func (h *CLIEndpoint) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print every credential as an otpauth:// URI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := h.uc.Export(cmd.Context())
			if err != nil {
				return err
			}

			for _, uri := range out.URIs {
				fmt.Fprintln(cmd.OutOrStdout(), uri)
			}
			return nil
		},
	}
}

func (h *CLIEndpoint) newCommand() *cobra.Command {
	var in usecase.NewInput

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a credential with a random secret and print its otpauth:// URI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := h.uc.New(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.URI)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "credential name")
	h.paramFlags(cmd, &in.Digits, &in.Period)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func readLines(stdin io.Reader, file string) (_ []string, err error) {
	r := stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerror.NewInvalidInput(err)
		}
		if err != nil {
			return nil, goerror.NewServer(err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = goerror.NewServer(cerr)
			}
		}()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, goerror.NewServer(fmt.Errorf("read import input: %w", err))
	}

	return lines, nil
}
