package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MGTheTrain/crypto-binding/internal/pkg/validators"

	"github.com/go-playground/validator/v10"
)

// Category selects one of the provider's algorithm name tables
type Category string

// Algorithm categories as named by the host
const (
	CategoryDigests Category = "digests"
	CategoryCiphers Category = "ciphers"
	CategoryPKeys   Category = "pkeys"
	CategoryComps   Category = "comps"
)

// Categories returns the known categories in table order
func Categories() []Category {
	return []Category{CategoryDigests, CategoryCiphers, CategoryPKeys, CategoryComps}
}

// ParseCategory maps a host category name to a Category
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, name)
}

// RandMode selects between cryptographically strong and fast pseudo-random generation.
// Pseudo output must never be used for key material.
type RandMode int

// Random generation modes
const (
	RandPseudo RandMode = iota
	RandStrong
)

// String implements fmt.Stringer
func (m RandMode) String() string {
	if m == RandStrong {
		return "strong"
	}
	return "pseudo"
}

// InitState is the process-wide initialization state of the provider
type InitState int32

// Initialization states. There is no transition out of StateReady.
const (
	StateUninitialized InitState = iota
	StateInitializing
	StateReady
)

// String implements fmt.Stringer
func (s InitState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// ErrorRecord is one entry drained from a thread's error queue
type ErrorRecord struct {
	Code    uint32
	Library int
	Reason  int
	Message string
	Data    string
}

// Object is a handle on an entry of the object identifier registry. Handles with the same NID are
// interchangeable; the registry owns the entry.
type Object struct {
	NID       int
	ShortName string
	LongName  string
	OID       string
}

// ObjectSpec describes a new object identifier registration
type ObjectSpec struct {
	OID       string `validate:"required,max=256,dottedOID"`
	ShortName string `validate:"required,max=64"`
	LongName  string `validate:"omitempty,max=256"`
}

// Validate for validating ObjectSpec struct
func (s *ObjectSpec) Validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("dottedOID", validators.DottedOIDValidation); err != nil {
		return fmt.Errorf("failed to register dotted OID validation: %w", err)
	}

	err := validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	if strings.ContainsAny(s.ShortName, " \t\n") {
		return fmt.Errorf("validation failed: short name %q contains whitespace", s.ShortName)
	}

	return nil
}
