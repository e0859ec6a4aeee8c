package entity

import (
	"errors"
	"fmt"

	"github.com/shandysiswandi/twofa/internal/pkg/otp"
)

// Credential is a stored secret profile, sufficient to reproduce codes.
type Credential struct {
	// Secret is the Base32 shared secret, upper case and unpadded.
	Secret string
	// Digits is the code length.
	Digits int
	// Period is the TOTP step in seconds.
	Period uint64
}

// NewCredential builds a Credential with the secret in canonical form.
func NewCredential(secret string, digits int, period uint64) Credential {
	return Credential{
		Secret: otp.NormalizeSecret(secret),
		Digits: digits,
		Period: period,
	}
}

// Validate reports whether codes can be generated from c. Errors wrap
// otp.ErrDecode or otp.ErrConfig.
func (c Credential) Validate() error {
	_, decodeErr := otp.DecodeSecret(c.Secret)
	return errors.Join(decodeErr, otp.ValidateParams(c.Digits, c.Period))
}

// Code returns the TOTP code valid at Unix time now and the seconds it has left.
func (c Credential) Code(now int64) (string, uint64, error) {
	code, err := otp.TOTP(c.Secret, c.Digits, c.Period, now)
	if err != nil {
		return "", 0, err
	}

	return code, otp.SecondsRemaining(c.Period, now), nil
}

// String hides the secret so credentials can be logged safely.
func (c Credential) String() string {
	return fmt.Sprintf("Credential{Digits: %d, Period: %d}", c.Digits, c.Period)
}
