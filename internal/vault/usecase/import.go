package usecase

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/otpauth"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
)

type (
	ImportInput struct {
		Lines []string `validate:"max=100000"`
	}

	// ImportFailure reports a URI line that could not be imported. Line is
	// 1-based.
	ImportFailure struct {
		Line int
		Name string
		Err  error
	}

	ImportOutput struct {
		Imported []string
		// Skipped counts non-blank lines that are not otpauth URIs.
		Skipped  int
		Failures []ImportFailure
		// Warnings lists lines whose URI asked for an unsupported algorithm.
		Warnings []ImportFailure
	}
)

type importEntry struct {
	line int
	name string
	cred entity.Credential
}

// Import adds every otpauth URI found in the input. Valid entries are
// committed together in one write even when other lines fail; each failed
// line is reported with its number. A name that already exists, or that
// appears twice in the input, fails for the later occurrence only.
func (s *Usecase) Import(ctx context.Context, in ImportInput) (*ImportOutput, error) {
	ctx, span := s.startSpan(ctx, "Import")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	out := &ImportOutput{}
	entries := make([]importEntry, 0, len(in.Lines))

	candidates := lo.Filter(in.Lines, func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
	out.Skipped = len(lo.Reject(candidates, func(line string, _ int) bool {
		return otpauth.IsURI(line)
	}))

	for i, line := range in.Lines {
		if !otpauth.IsURI(line) {
			continue
		}

		name, key, err := otpauth.Parse(line)
		if err != nil {
			out.Failures = append(out.Failures, ImportFailure{Line: i + 1, Err: s.mapError(ctx, err, "failed to parse otpauth uri", "line", i+1)})
			continue
		}

		cred := entity.NewCredential(key.Secret, key.Digits, key.Period)
		if err := cred.Validate(); err != nil {
			out.Failures = append(out.Failures, ImportFailure{Line: i + 1, Name: name, Err: s.mapError(ctx, err, "invalid credential", "line", i+1, "name", name)})
			continue
		}

		if key.IgnoredAlgorithm != "" {
			slog.WarnContext(ctx, "ignoring unsupported algorithm, codes use SHA1", "line", i+1, "name", name, "algorithm", key.IgnoredAlgorithm)
			out.Warnings = append(out.Warnings, ImportFailure{Line: i + 1, Name: name, Err: goerror.NewBusiness(nil, "unsupported algorithm "+key.IgnoredAlgorithm+" ignored", goerror.CodeInvalidInput)})
		}

		entries = append(entries, importEntry{line: i + 1, name: name, cred: cred})
	}

	if len(entries) > 0 {
		var (
			imported []string
			failures []ImportFailure
		)

		err := s.store.Update(ctx, func(reg *entity.Registry) (bool, error) {
			imported, failures = nil, nil
			for _, e := range entries {
				if err := reg.Insert(e.name, e.cred); err != nil {
					failures = append(failures, ImportFailure{Line: e.line, Name: e.name, Err: s.mapError(ctx, err, "failed to import credential", "line", e.line, "name", e.name)})
					continue
				}
				imported = append(imported, e.name)
			}

			return len(imported) > 0, nil
		})
		if err != nil {
			return nil, s.mapError(ctx, err, "failed to import credentials")
		}

		out.Imported = imported
		out.Failures = append(out.Failures, failures...)
	}

	slices.SortStableFunc(out.Failures, func(a, b ImportFailure) int {
		return cmp.Compare(a.Line, b.Line)
	})

	slog.InfoContext(ctx, "import finished",
		"imported", len(out.Imported), "skipped", out.Skipped, "failed", len(out.Failures))

	return out, nil
}
