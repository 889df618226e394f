//go:build unit
// +build unit

package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ObjectSpecValidationTests encapsulates the test data for ObjectSpec validation
type ObjectSpecValidationTests struct {
	validSpec       ObjectSpec
	missingOID      ObjectSpec
	malformedOID    ObjectSpec
	missingName     ObjectSpec
	whitespaceName  ObjectSpec
	overlongLongName ObjectSpec
}

// NewObjectSpecValidationTests creates the valid and invalid ObjectSpec fixtures
func NewObjectSpecValidationTests() *ObjectSpecValidationTests {
	return &ObjectSpecValidationTests{
		validSpec:       ObjectSpec{OID: "1.3.6.1.4.1.99999.1", ShortName: "testObj", LongName: "Test Object"},
		missingOID:      ObjectSpec{ShortName: "testObj"},
		malformedOID:    ObjectSpec{OID: "1.2.x", ShortName: "testObj"},
		missingName:     ObjectSpec{OID: "1.3.6.1.4.1.99999.1"},
		whitespaceName:  ObjectSpec{OID: "1.3.6.1.4.1.99999.1", ShortName: "test obj"},
		overlongLongName: ObjectSpec{OID: "1.3.6.1.4.1.99999.1", ShortName: "testObj", LongName: strings.Repeat("x", 257)},
	}
}

// TestObjectSpecValidation tests the Validate method for ObjectSpec
func (tt *ObjectSpecValidationTests) TestObjectSpecValidation(t *testing.T) {
	assert.NoError(t, tt.validSpec.Validate())

	err := tt.missingOID.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: OID, Tag: required")

	err = tt.malformedOID.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: OID, Tag: dottedOID")

	err = tt.missingName.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: ShortName, Tag: required")

	err = tt.whitespaceName.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whitespace")

	err = tt.overlongLongName.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: LongName, Tag: max")
}

// TestObjectSpecValidationMain is the entry point for ObjectSpec validation tests
func TestObjectSpecValidationMain(t *testing.T) {
	tests := NewObjectSpecValidationTests()
	t.Run("TestObjectSpecValidation", tests.TestObjectSpecValidation)
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("kdfs")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "strong", RandStrong.String())
	assert.Equal(t, "pseudo", RandPseudo.String())
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "initializing", StateInitializing.String())
	assert.Equal(t, "ready", StateReady.String())
}
