package otp

import (
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/pquerna/otp/totp"
)

const (
	// DefaultDigits is the code length used when none is configured.
	DefaultDigits = 6
	// DefaultPeriod is the TOTP time step in seconds used when none is configured.
	DefaultPeriod uint64 = 30
	// MaxDigits is the longest code whose modulus 10^digits fits in a uint32.
	MaxDigits = 9

	secretSize = 20
)

var (
	// ErrDecode indicates the shared secret is not valid Base32 or decodes to nothing.
	ErrDecode = errors.New("otp: invalid secret")
	// ErrConfig indicates an unusable digits, period or timestamp value.
	ErrConfig = errors.New("otp: invalid configuration")
)

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// OTP defines the contract used by the application layer.
type OTP interface {
	// HOTP returns the counter based code for secret.
	HOTP(secret string, counter uint64, digits int) (string, error)
	// TOTP returns the time based code for secret at the Unix time now.
	TOTP(secret string, digits int, period uint64, now int64) (string, error)
	// SecondsRemaining returns how long the code computed at now stays current.
	SecondsRemaining(period uint64, now int64) uint64
	// GenerateSecret creates a fresh random Base32 secret for accountName.
	GenerateSecret(accountName string) (string, error)
}

// Engine implements OTP with HMAC-SHA1.
type Engine struct {
	issuer string
}

// NewEngine returns an Engine. issuer is only used as metadata when
// generating new secrets; it never affects computed codes.
func NewEngine(issuer string) *Engine {
	if strings.TrimSpace(issuer) == "" {
		issuer = "twofa"
	}

	return &Engine{issuer: issuer}
}

// HOTP implements OTP.
func (e *Engine) HOTP(secret string, counter uint64, digits int) (string, error) {
	return HOTP(secret, counter, digits)
}

// TOTP implements OTP.
func (e *Engine) TOTP(secret string, digits int, period uint64, now int64) (string, error) {
	return TOTP(secret, digits, period, now)
}

// SecondsRemaining implements OTP.
func (e *Engine) SecondsRemaining(period uint64, now int64) uint64 {
	return SecondsRemaining(period, now)
}

// GenerateSecret implements OTP.
func (e *Engine) GenerateSecret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      e.issuer,
		AccountName: accountName,
		SecretSize:  secretSize, // RFC 4226 recommends 160 bits
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("otp: failed to generate secret: %w", err)
	}

	return NormalizeSecret(key.Secret()), nil
}

// NormalizeSecret returns the canonical stored form of a Base32 secret:
// upper case, no whitespace, no padding.
func NormalizeSecret(secret string) string {
	secret = strings.Join(strings.Fields(secret), "")
	secret = strings.ToUpper(secret)
	return strings.TrimRight(secret, "=")
}

// DecodeSecret decodes a Base32 secret. Lower case letters, embedded spaces
// and trailing padding are accepted.
func DecodeSecret(secret string) ([]byte, error) {
	norm := NormalizeSecret(secret)
	if norm == "" {
		return nil, fmt.Errorf("%w: secret must not be empty", ErrDecode)
	}

	key, err := b32NoPadding.DecodeString(norm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: secret decodes to zero bytes", ErrDecode)
	}

	return key, nil
}

// ValidateDigits reports whether digits yields a modulus inside the uint32 domain.
func ValidateDigits(digits int) error {
	if digits < 1 || digits > MaxDigits {
		return fmt.Errorf("%w: digits must be between 1 and %d, got %d", ErrConfig, MaxDigits, digits)
	}

	return nil
}

// ValidatePeriod reports whether period can be used as a TOTP step.
func ValidatePeriod(period uint64) error {
	if period == 0 {
		return fmt.Errorf("%w: period must be positive", ErrConfig)
	}

	return nil
}

// ValidateParams checks digits and period together.
func ValidateParams(digits int, period uint64) error {
	return errors.Join(ValidateDigits(digits), ValidatePeriod(period))
}

// HOTP computes the RFC 4226 code for secret at counter, zero padded to
// exactly digits characters.
//
// The counter is hashed as 8 big-endian bytes with HMAC-SHA1; the low nibble
// of the last digest byte selects a 4 byte window whose top bit is cleared
// before reducing modulo 10^digits.
func HOTP(secret string, counter uint64, digits int) (string, error) {
	if err := ValidateDigits(digits); err != nil {
		return "", err
	}

	if _, err := DecodeSecret(secret); err != nil {
		return "", err
	}

	code, err := hotp.GenerateCodeCustom(NormalizeSecret(secret), counter, hotp.ValidateOpts{
		Digits:    otp.Digits(digits),
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return code, nil
}

// TOTP computes the RFC 6238 code for secret at Unix time now using the
// counter floor(now / period).
func TOTP(secret string, digits int, period uint64, now int64) (string, error) {
	if err := ValidatePeriod(period); err != nil {
		return "", err
	}
	if now < 0 {
		return "", fmt.Errorf("%w: timestamp %d is before the Unix epoch", ErrConfig, now)
	}

	return HOTP(secret, Counter(period, now), digits)
}

// Counter returns the TOTP step number containing now. period must be positive.
func Counter(period uint64, now int64) uint64 {
	if period == 0 || now < 0 {
		return 0
	}

	return uint64(now) / period
}

// SecondsRemaining returns period - (now mod period), which is always within
// [1, period]. It returns 0 only for a zero period.
func SecondsRemaining(period uint64, now int64) uint64 {
	if period == 0 {
		return 0
	}

	if now >= 0 {
		return period - uint64(now)%period
	}

	// -now fits in a uint64 even for math.MinInt64.
	back := uint64(-(now + 1)) + 1
	if rem := back % period; rem != 0 {
		return rem
	}

	return period
}
