//go:build unit
// +build unit

package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDottedOID(t *testing.T) {
	tests := []struct {
		oid   string
		valid bool
	}{
		{"1.2.840.113549.1.1.1", true},
		{"2.5.4.3", true},
		{"2.999.1", true},
		{"1.3.6.1.4.1.99999.1", true},
		{"0.9", true},
		{"", false},
		{"1", false},
		{"3.1", false},
		{"1.40", false},
		{"1..2", false},
		{"1.2.", false},
		{"1.02", false},
		{"1.2.a", false},
		{"1.2.-3", false},
		{"commonName", false},
		{"1.2.99999999999999999999999", false},
	}

	for _, tt := range tests {
		t.Run(tt.oid, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsDottedOID(tt.oid))
		})
	}
}

func TestDottedOIDValidation(t *testing.T) {
	type spec struct {
		OID string `validate:"dottedOID"`
	}

	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("dottedOID", DottedOIDValidation))

	assert.NoError(t, validate.Struct(spec{OID: "1.2.3"}))
	assert.Error(t, validate.Struct(spec{OID: "x.y"}))
}
