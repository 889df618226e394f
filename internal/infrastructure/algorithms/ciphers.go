package algorithms

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/des" // #nosec G502 -- triple DES kept for legacy interoperability
	"errors"
	"fmt"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrBadDecrypt indicates ciphertext that failed padding or authentication checks
var ErrBadDecrypt = errors.New("bad decrypt")

// Cipher modes
const (
	ModeCBC  = "cbc"
	ModeCTR  = "ctr"
	ModeGCM  = "gcm"
	ModeAEAD = "aead"
)

// CipherMethod describes a symmetric cipher known to the provider
type CipherMethod struct {
	Name      string
	NID       int
	KeyLen    int
	IVLen     int
	BlockSize int
	Mode      string
	newBlock  func(key []byte) (cipher.Block, error)
}

func (c *CipherMethod) check(key, iv []byte) error {
	if len(key) != c.KeyLen {
		return fmt.Errorf("%w: %s needs a %d byte key, got %d", provider.ErrInvalidArgument, c.Name, c.KeyLen, len(key))
	}
	if len(iv) != c.IVLen {
		return fmt.Errorf("%w: %s needs a %d byte iv, got %d", provider.ErrInvalidArgument, c.Name, c.IVLen, len(iv))
	}
	return nil
}

func (c *CipherMethod) aead(key []byte) (cipher.AEAD, error) {
	if c.Mode == ModeAEAD {
		return chacha20poly1305.New(key)
	}
	block, err := c.newBlock(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt encrypts plaintext. CBC output is PKCS#7 padded; GCM and AEAD output carries the tag.
func (c *CipherMethod) Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	if err := c.check(key, iv); err != nil {
		return nil, err
	}

	switch c.Mode {
	case ModeGCM, ModeAEAD:
		aead, err := c.aead(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", c.Name, err)
		}
		return aead.Seal(nil, iv, plaintext, nil), nil
	case ModeCTR:
		block, err := c.newBlock(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", c.Name, err)
		}
		out := make([]byte, len(plaintext))
		cipher.NewCTR(block, iv).XORKeyStream(out, plaintext)
		return out, nil
	default:
		block, err := c.newBlock(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", c.Name, err)
		}
		padded := pad(plaintext, block.BlockSize())
		out := make([]byte, len(padded))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
		return out, nil
	}
}

// Decrypt reverses Encrypt
func (c *CipherMethod) Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if err := c.check(key, iv); err != nil {
		return nil, err
	}

	switch c.Mode {
	case ModeGCM, ModeAEAD:
		aead, err := c.aead(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", c.Name, err)
		}
		out, err := aead.Open(nil, iv, ciphertext, nil)
		if err != nil {
			return nil, ErrBadDecrypt
		}
		return out, nil
	case ModeCTR:
		block, err := c.newBlock(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", c.Name, err)
		}
		out := make([]byte, len(ciphertext))
		cipher.NewCTR(block, iv).XORKeyStream(out, ciphertext)
		return out, nil
	default:
		block, err := c.newBlock(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", c.Name, err)
		}
		if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
			return nil, ErrBadDecrypt
		}
		out := make([]byte, len(ciphertext))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
		return unpad(out, block.BlockSize())
	}
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrBadDecrypt
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrBadDecrypt
		}
	}
	return data[:len(data)-n], nil
}

var builtinCiphers = []struct {
	method  CipherMethod
	aliases []string
}{
	{CipherMethod{Name: "aes-128-cbc", NID: 419, KeyLen: 16, IVLen: 16, BlockSize: 16, Mode: ModeCBC, newBlock: aes.NewCipher}, []string{"AES-128-CBC", "aes128"}},
	{CipherMethod{Name: "aes-192-cbc", NID: 423, KeyLen: 24, IVLen: 16, BlockSize: 16, Mode: ModeCBC, newBlock: aes.NewCipher}, []string{"AES-192-CBC", "aes192"}},
	{CipherMethod{Name: "aes-256-cbc", NID: 427, KeyLen: 32, IVLen: 16, BlockSize: 16, Mode: ModeCBC, newBlock: aes.NewCipher}, []string{"AES-256-CBC", "aes256"}},
	{CipherMethod{Name: "aes-128-ctr", NID: 904, KeyLen: 16, IVLen: 16, BlockSize: 1, Mode: ModeCTR, newBlock: aes.NewCipher}, []string{"AES-128-CTR"}},
	{CipherMethod{Name: "aes-192-ctr", NID: 905, KeyLen: 24, IVLen: 16, BlockSize: 1, Mode: ModeCTR, newBlock: aes.NewCipher}, []string{"AES-192-CTR"}},
	{CipherMethod{Name: "aes-256-ctr", NID: 906, KeyLen: 32, IVLen: 16, BlockSize: 1, Mode: ModeCTR, newBlock: aes.NewCipher}, []string{"AES-256-CTR"}},
	{CipherMethod{Name: "aes-128-gcm", NID: 895, KeyLen: 16, IVLen: 12, BlockSize: 1, Mode: ModeGCM, newBlock: aes.NewCipher}, []string{"id-aes128-GCM"}},
	{CipherMethod{Name: "aes-192-gcm", NID: 898, KeyLen: 24, IVLen: 12, BlockSize: 1, Mode: ModeGCM, newBlock: aes.NewCipher}, []string{"id-aes192-GCM"}},
	{CipherMethod{Name: "aes-256-gcm", NID: 901, KeyLen: 32, IVLen: 12, BlockSize: 1, Mode: ModeGCM, newBlock: aes.NewCipher}, []string{"id-aes256-GCM"}},
	{CipherMethod{Name: "chacha20-poly1305", NID: 1018, KeyLen: chacha20poly1305.KeySize, IVLen: chacha20poly1305.NonceSize, BlockSize: 1, Mode: ModeAEAD}, []string{"ChaCha20-Poly1305"}},
	{CipherMethod{Name: "des-ede3-cbc", NID: 44, KeyLen: 24, IVLen: 8, BlockSize: 8, Mode: ModeCBC, newBlock: des.NewTripleDESCipher}, []string{"DES-EDE3-CBC", "des3"}},
}

// RegisterCiphers adds the built-in ciphers and their aliases to t
func RegisterCiphers(t *Table) error {
	var errs []error
	for _, c := range builtinCiphers {
		method := c.method
		if err := t.Add(provider.CategoryCiphers, method.Name, &method); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, alias := range c.aliases {
			if err := t.Alias(provider.CategoryCiphers, alias, method.Name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
