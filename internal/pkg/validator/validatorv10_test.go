package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	AccountName string `validate:"otpname"`
	Digits      int    `validate:"required,min=1,max=9"`
	OldName     string `validate:"omitempty,otpname"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	require.NoError(t, v.Validate(sample{AccountName: "GitHub:alice", Digits: 6}))

	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{name: "blank name", in: sample{AccountName: "   ", Digits: 6}, wantField: "account_name"},
		{name: "control char", in: sample{AccountName: "a\nb", Digits: 6}, wantField: "account_name"},
		{name: "digits missing", in: sample{AccountName: "a"}, wantField: "digits"},
		{name: "digits too large", in: sample{AccountName: "a", Digits: 10}, wantField: "digits"},
		{name: "optional name set but blank", in: sample{AccountName: "a", Digits: 6, OldName: "\t"}, wantField: "old_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)

			var verr V10ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Values(), tt.wantField)
			assert.NotEmpty(t, verr.Error())
		})
	}
}

func TestV10ValidationError_Error(t *testing.T) {
	assert.Equal(t, "validation error", V10ValidationError{}.Error())
	assert.JSONEq(t, `{"name":"name is required"}`, V10ValidationError{"name": "name is required"}.Error())
}
