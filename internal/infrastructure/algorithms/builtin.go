package algorithms

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
)

// PKeyMethod describes a public key algorithm family
type PKeyMethod struct {
	Name string
	NID  int
	// Sign reports whether the family produces signatures; key agreement only families do not.
	Sign bool
}

var builtinPKeys = []struct {
	method  PKeyMethod
	aliases []string
}{
	{PKeyMethod{Name: "RSA", NID: 6, Sign: true}, []string{"rsaEncryption"}},
	{PKeyMethod{Name: "RSA-PSS", NID: 912, Sign: true}, []string{"RSASSA-PSS"}},
	{PKeyMethod{Name: "EC", NID: 408, Sign: true}, []string{"id-ecPublicKey"}},
	{PKeyMethod{Name: "ED25519", NID: 1087, Sign: true}, nil},
	{PKeyMethod{Name: "X25519", NID: 1034}, nil},
	{PKeyMethod{Name: "DSA", NID: 116, Sign: true}, []string{"dsaEncryption"}},
	{PKeyMethod{Name: "DH", NID: 28}, []string{"dhKeyAgreement"}},
	{PKeyMethod{Name: "HMAC", NID: 855, Sign: true}, nil},
}

// RegisterPKeys adds the built-in public key families to t
func RegisterPKeys(t *Table) error {
	var errs []error
	for _, p := range builtinPKeys {
		method := p.method
		if err := t.Add(provider.CategoryPKeys, method.Name, &method); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, alias := range p.aliases {
			if err := t.Alias(provider.CategoryPKeys, alias, method.Name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// CompMethod is a compression method
type CompMethod struct {
	Name string
	NID  int
}

// Compress deflates data in zlib framing
func (c *CompMethod) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Expand inflates zlib framed data
func (c *CompMethod) Expand(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrMalformedInput, err)
	}
	defer func() { _ = r.Close() }()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrMalformedInput, err)
	}
	return out, nil
}

// RegisterComps adds the zlib compression method to t
func RegisterComps(t *Table) error {
	return t.Add(provider.CategoryComps, "zlib", &CompMethod{Name: "zlib", NID: 125})
}

// RegisterAll fills every category of t with the built-in methods
func RegisterAll(t *Table) error {
	return errors.Join(
		RegisterDigests(t),
		RegisterCiphers(t),
		RegisterPKeys(t),
		RegisterComps(t),
	)
}
