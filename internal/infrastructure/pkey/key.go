package pkey

import (
	"crypto"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"errors"
	"fmt"
	"slices"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"

	"github.com/go-playground/validator/v10"
)

// Key types
const (
	TypeRSA     = "RSA"
	TypeEC      = "EC"
	TypeED25519 = "ED25519"
	TypeX25519  = "X25519"
)

// DefaultRSABits and DefaultCurve apply when a KeySpec leaves them unset
const (
	DefaultRSABits = 2048
	DefaultCurve   = "P-256"
)

// ErrUnsupportedKey is returned for key types or operations the key cannot perform
var ErrUnsupportedKey = errors.New("unsupported key type")

var curves = map[string]elliptic.Curve{
	"P-224": elliptic.P224(),
	"P-256": elliptic.P256(),
	"P-384": elliptic.P384(),
	"P-521": elliptic.P521(),
}

// Curves returns the supported named curves, sorted
func Curves() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// KeySpec describes a key to generate
type KeySpec struct {
	Type  string `validate:"required,oneof=RSA EC ED25519 X25519"`
	Bits  int    `validate:"omitempty,min=1024,max=16384"`
	Curve string `validate:"omitempty,oneof=P-224 P-256 P-384 P-521"`
}

// Validate for validating KeySpec struct
func (s *KeySpec) Validate() error {
	validate := validator.New()

	err := validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var errorMessages []string
			for _, fieldErr := range validationErrors {
				errorMessages = append(errorMessages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("%w: %v", provider.ErrInvalidArgument, errorMessages)
		}
		return fmt.Errorf("%w: %v", provider.ErrInvalidArgument, err)
	}
	return nil
}

// Key is a key pair, or a public key alone when Private is nil
type Key struct {
	Type    string
	Bits    int
	Curve   string
	Private crypto.PrivateKey
	Public  crypto.PublicKey
}

// IsPrivate reports whether the private half is present
func (k *Key) IsPrivate() bool {
	return k.Private != nil
}

// PublicOnly returns a copy without the private half
func (k *Key) PublicOnly() *Key {
	return &Key{Type: k.Type, Bits: k.Bits, Curve: k.Curve, Public: k.Public}
}

func describePrivate(priv crypto.PrivateKey) (*Key, error) {
	switch sk := priv.(type) {
	case *rsa.PrivateKey:
		return &Key{Type: TypeRSA, Bits: sk.N.BitLen(), Private: sk, Public: &sk.PublicKey}, nil
	case *ecdsa.PrivateKey:
		return &Key{Type: TypeEC, Bits: sk.Curve.Params().BitSize, Curve: sk.Curve.Params().Name, Private: sk, Public: &sk.PublicKey}, nil
	case ed25519.PrivateKey:
		return &Key{Type: TypeED25519, Bits: 256, Private: sk, Public: sk.Public()}, nil
	case *ecdh.PrivateKey:
		if sk.Curve() != ecdh.X25519() {
			return nil, fmt.Errorf("%w: ecdh curve %v", ErrUnsupportedKey, sk.Curve())
		}
		return &Key{Type: TypeX25519, Bits: 253, Private: sk, Public: sk.PublicKey()}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, priv)
}

func describePublic(pub crypto.PublicKey) (*Key, error) {
	switch pk := pub.(type) {
	case *rsa.PublicKey:
		return &Key{Type: TypeRSA, Bits: pk.N.BitLen(), Public: pk}, nil
	case *ecdsa.PublicKey:
		return &Key{Type: TypeEC, Bits: pk.Curve.Params().BitSize, Curve: pk.Curve.Params().Name, Public: pk}, nil
	case ed25519.PublicKey:
		return &Key{Type: TypeED25519, Bits: 256, Public: pk}, nil
	case *ecdh.PublicKey:
		if pk.Curve() != ecdh.X25519() {
			return nil, fmt.Errorf("%w: ecdh curve %v", ErrUnsupportedKey, pk.Curve())
		}
		return &Key{Type: TypeX25519, Bits: 253, Public: pk}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
}
