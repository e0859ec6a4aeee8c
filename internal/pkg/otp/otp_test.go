package otp

import (
	"encoding/base32"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// "12345678901234567890" from RFC 4226 Appendix D.
var rfcSecret = base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte("12345678901234567890"))

func TestHOTP_RFC4226Vectors(t *testing.T) {
	want := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}

	for counter, code := range want {
		t.Run(fmt.Sprintf("counter %d", counter), func(t *testing.T) {
			got, err := HOTP(rfcSecret, uint64(counter), 6)
			require.NoError(t, err)
			assert.Equal(t, code, got)
		})
	}
}

func TestTOTP_RFC6238SHA1Vectors(t *testing.T) {
	tests := []struct {
		now  int64
		want string
	}{
		{now: 59, want: "94287082"},
		{now: 1111111109, want: "07081804"},
		{now: 1111111111, want: "14050471"},
		{now: 1234567890, want: "89005924"},
		{now: 2000000000, want: "69279037"},
		{now: 20000000000, want: "65353130"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("t=%d", tt.now), func(t *testing.T) {
			got, err := TOTP(rfcSecret, 8, 30, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHOTP_DeterministicFixedWidth(t *testing.T) {
	for digits := 1; digits <= MaxDigits; digits++ {
		for _, counter := range []uint64{0, 1, 42, 1 << 32, ^uint64(0)} {
			a, err := HOTP("JBSWY3DPEHPK3PXP", counter, digits)
			require.NoError(t, err)
			b, err := HOTP("JBSWY3DPEHPK3PXP", counter, digits)
			require.NoError(t, err)

			assert.Equal(t, a, b)
			assert.Len(t, a, digits)
		}
	}
}

func TestTOTP_MatchesHOTPAtFloorCounter(t *testing.T) {
	for _, now := range []int64{0, 29, 30, 31, 59, 1700000000, 1700000029} {
		totp, err := TOTP(rfcSecret, 6, 30, now)
		require.NoError(t, err)

		hotp, err := HOTP(rfcSecret, uint64(now/30), 6)
		require.NoError(t, err)

		assert.Equal(t, hotp, totp, "now=%d", now)
	}
}

func TestHOTP_Errors(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		digits  int
		wantErr error
	}{
		{name: "empty secret", secret: "", digits: 6, wantErr: ErrDecode},
		{name: "blank secret", secret: "   ", digits: 6, wantErr: ErrDecode},
		{name: "bad alphabet", secret: "JBSWY3DP!HPK3PXP", digits: 6, wantErr: ErrDecode},
		{name: "bad length", secret: "A", digits: 6, wantErr: ErrDecode},
		{name: "zero digits", secret: "JBSWY3DPEHPK3PXP", digits: 0, wantErr: ErrConfig},
		{name: "negative digits", secret: "JBSWY3DPEHPK3PXP", digits: -1, wantErr: ErrConfig},
		{name: "modulus overflows uint32", secret: "JBSWY3DPEHPK3PXP", digits: 10, wantErr: ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := HOTP(tt.secret, 0, tt.digits)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, code)
		})
	}
}

func TestTOTP_Errors(t *testing.T) {
	_, err := TOTP(rfcSecret, 6, 0, 100)
	require.ErrorIs(t, err, ErrConfig)

	_, err = TOTP(rfcSecret, 6, 30, -1)
	require.ErrorIs(t, err, ErrConfig)

	_, err = TOTP("not base32!", 6, 30, 100)
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeSecret_Tolerant(t *testing.T) {
	want, err := DecodeSecret("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	for _, in := range []string{"jbswy3dpehpk3pxp", "JBSW Y3DP EHPK 3PXP", "JBSWY3DPEHPK3PXP"} {
		got, err := DecodeSecret(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	padded, err := DecodeSecret("GEZDGNBV")
	require.NoError(t, err)
	assert.Equal(t, []byte("12345"), padded)

	short, err := DecodeSecret("GEZDG===")
	require.NoError(t, err)
	assert.Equal(t, []byte("123"), short)
}

func TestNormalizeSecret(t *testing.T) {
	assert.Equal(t, "JBSWY3DPEHPK3PXP", NormalizeSecret(" jbsw y3dp ehpk 3pxp "))
	assert.Equal(t, "GEZDG", NormalizeSecret("GEZDG==="))
}

func TestSecondsRemaining(t *testing.T) {
	tests := []struct {
		period uint64
		now    int64
		want   uint64
	}{
		{period: 30, now: 0, want: 30},
		{period: 30, now: 1, want: 29},
		{period: 30, now: 29, want: 1},
		{period: 30, now: 30, want: 30},
		{period: 30, now: 1700000015, want: 25},
		{period: 60, now: 59, want: 1},
		{period: 1, now: 12345, want: 1},
		{period: 30, now: -1, want: 1},
		{period: 30, now: -30, want: 30},
		{period: 30, now: -31, want: 1},
		{period: math.MaxUint64, now: 10, want: math.MaxUint64 - 10},
		{period: math.MaxInt64 + 5, now: math.MaxInt64, want: 5},
		{period: math.MaxUint64, now: -1, want: 1},
		{period: math.MaxUint64, now: math.MinInt64, want: 1 << 63},
		{period: 0, now: 10, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SecondsRemaining(tt.period, tt.now), "period=%d now=%d", tt.period, tt.now)
	}

	for now := int64(0); now < 200; now++ {
		got := SecondsRemaining(30, now)
		assert.GreaterOrEqual(t, got, uint64(1))
		assert.LessOrEqual(t, got, uint64(30))
	}
}

func TestValidateParams(t *testing.T) {
	require.NoError(t, ValidateParams(6, 30))
	require.NoError(t, ValidateParams(MaxDigits, 1))
	require.ErrorIs(t, ValidateParams(0, 30), ErrConfig)
	require.ErrorIs(t, ValidateParams(6, 0), ErrConfig)
}

func TestEngine_GenerateSecret(t *testing.T) {
	e := NewEngine("")

	secret, err := e.GenerateSecret("alice@example.com")
	require.NoError(t, err)

	key, err := DecodeSecret(secret)
	require.NoError(t, err)
	assert.Len(t, key, secretSize)
	assert.Equal(t, NormalizeSecret(secret), secret)

	other, err := e.GenerateSecret("alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)

	code, err := e.TOTP(secret, 6, 30, 1700000000)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}
