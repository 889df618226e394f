package pkey

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
)

// ErrNoPEM is returned when input holds no PEM block
var ErrNoPEM = errors.New("no PEM block found")

// MarshalPrivatePEM encodes the private half as a PKCS#8 "PRIVATE KEY" block
func MarshalPrivatePEM(key *Key) ([]byte, error) {
	if !key.IsPrivate() {
		return nil, fmt.Errorf("%w: key has no private half", provider.ErrInvalidArgument)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key.Private)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// MarshalPublicPEM encodes the public half as a PKIX "PUBLIC KEY" block
func MarshalPublicPEM(key *Key) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key.Public)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// ParsePEM reads the first PEM block of data as a private key (PKCS#8, PKCS#1 or SEC 1)
// or a public key (PKIX or PKCS#1)
func ParsePEM(data []byte) (*Key, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrNoPEM
	}

	switch block.Type {
	case "PRIVATE KEY":
		priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", provider.ErrMalformedInput, err)
		}
		return describePrivate(priv)
	case "RSA PRIVATE KEY":
		priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", provider.ErrMalformedInput, err)
		}
		return describePrivate(priv)
	case "EC PRIVATE KEY":
		priv, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", provider.ErrMalformedInput, err)
		}
		return describePrivate(priv)
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", provider.ErrMalformedInput, err)
		}
		return describePublic(pub)
	case "RSA PUBLIC KEY":
		pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", provider.ErrMalformedInput, err)
		}
		return describePublic(pub)
	}
	return nil, fmt.Errorf("%w: PEM type %q", ErrUnsupportedKey, block.Type)
}
