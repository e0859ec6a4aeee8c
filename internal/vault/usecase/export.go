package usecase

import (
	"context"

	"github.com/shandysiswandi/twofa/internal/pkg/otpauth"
	"github.com/shandysiswandi/twofa/internal/vault/entity"
)

type (
	ExportOutput struct {
		// URIs holds one otpauth URI per credential, ordered by name.
		URIs []string
	}
)

// Export renders every credential as an otpauth URI that Import accepts.
func (s *Usecase) Export(ctx context.Context) (*ExportOutput, error) {
	ctx, span := s.startSpan(ctx, "Export")
	defer span.End()

	out := &ExportOutput{}
	err := s.store.View(ctx, func(reg *entity.Registry) error {
		out.URIs = make([]string, 0, reg.Len())
		for name, cred := range reg.All() {
			out.URIs = append(out.URIs, otpauth.Format(name, otpauth.Key{
				Secret: cred.Secret,
				Digits: cred.Digits,
				Period: cred.Period,
			}))
		}
		return nil
	})
	if err != nil {
		return nil, s.mapError(ctx, err, "failed to load registry")
	}

	return out, nil
}
