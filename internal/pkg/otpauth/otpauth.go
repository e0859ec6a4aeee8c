package otpauth

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shandysiswandi/twofa/internal/pkg/otp"
)

// Prefix marks a string as an otpauth URI.
const Prefix = "otpauth://"

const (
	scheme   = "otpauth"
	modeTOTP = "totp"
)

var (
	// ErrMalformedURI indicates the input is not a well-formed otpauth URI.
	ErrMalformedURI = errors.New("otpauth: malformed uri")
	// ErrUnsupportedMode indicates a type other than totp (for example hotp).
	ErrUnsupportedMode = errors.New("otpauth: unsupported mode")
	// ErrMissingSecret indicates the mandatory secret parameter is absent.
	ErrMissingSecret = errors.New("otpauth: missing secret")
	// ErrMalformedParameter indicates digits or period is not a positive integer.
	ErrMalformedParameter = errors.New("otpauth: malformed parameter")
)

// Key holds the credential parameters carried by a URI.
type Key struct {
	Secret string
	Digits int
	Period uint64
	// Issuer is informational; it never changes the derived name.
	Issuer string
	// IgnoredAlgorithm is set when the URI asked for a hash other than SHA1.
	IgnoredAlgorithm string
}

// IsURI reports whether s starts with the otpauth:// marker.
func IsURI(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= len(Prefix) && strings.EqualFold(s[:len(Prefix)], Prefix)
}

// Parse extracts the credential name and parameters from an
// otpauth://totp/... URI. It performs no I/O.
func Parse(uri string) (string, Key, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return "", Key{}, fmt.Errorf("%w: %v", ErrMalformedURI, err)
	}
	if u.Scheme != scheme || u.Opaque != "" {
		return "", Key{}, fmt.Errorf("%w: expected %s prefix", ErrMalformedURI, Prefix)
	}
	if u.Host != modeTOTP {
		return "", Key{}, fmt.Errorf("%w: %q", ErrUnsupportedMode, u.Host)
	}

	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return "", Key{}, fmt.Errorf("%w: empty label", ErrMalformedURI)
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", Key{}, fmt.Errorf("%w: %v", ErrMalformedParameter, err)
	}

	secret := otp.NormalizeSecret(query.Get("secret"))
	if secret == "" {
		return "", Key{}, ErrMissingSecret
	}

	key := Key{
		Secret: secret,
		Digits: otp.DefaultDigits,
		Period: otp.DefaultPeriod,
		Issuer: query.Get("issuer"),
	}

	if query.Has("digits") {
		digits, err := parsePositive(query.Get("digits"), 8)
		if err != nil {
			return "", Key{}, fmt.Errorf("%w: digits: %v", ErrMalformedParameter, err)
		}
		key.Digits = int(digits)
	}

	if query.Has("period") {
		period, err := parsePositive(query.Get("period"), 32)
		if err != nil {
			return "", Key{}, fmt.Errorf("%w: period: %v", ErrMalformedParameter, err)
		}
		key.Period = period
	}

	if alg := query.Get("algorithm"); alg != "" && !strings.EqualFold(alg, "SHA1") {
		key.IgnoredAlgorithm = alg
	}

	return name, key, nil
}

// Format renders name and key as an otpauth://totp URI that Parse maps back
// to the same name and parameters.
func Format(name string, key Key) string {
	q := url.Values{}
	q.Set("secret", key.Secret)
	q.Set("digits", strconv.Itoa(key.Digits))
	q.Set("period", strconv.FormatUint(key.Period, 10))
	q.Set("algorithm", "SHA1")
	if key.Issuer != "" {
		q.Set("issuer", key.Issuer)
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     modeTOTP,
		Path:     "/" + name,
		RawQuery: q.Encode(),
	}

	return u.String()
}

func parsePositive(raw string, bitSize int) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, bitSize)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("must be positive")
	}

	return n, nil
}
