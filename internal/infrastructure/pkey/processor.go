package pkey

import (
	"context"
	"crypto"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"
	"github.com/MGTheTrain/crypto-binding/internal/infrastructure/algorithms"
	"github.com/MGTheTrain/crypto-binding/internal/pkg/logger"
)

// EntropySource supplies the strong random stream for one call
type EntropySource interface {
	Reader(ctx context.Context) io.Reader
}

// hashIDs maps canonical digest names to the identifiers the signature schemes encode
var hashIDs = map[string]crypto.Hash{
	"md5":        crypto.MD5,
	"sha1":       crypto.SHA1,
	"sha224":     crypto.SHA224,
	"sha256":     crypto.SHA256,
	"sha384":     crypto.SHA384,
	"sha512":     crypto.SHA512,
	"sha512-224": crypto.SHA512_224,
	"sha512-256": crypto.SHA512_256,
	"sha3-224":   crypto.SHA3_224,
	"sha3-256":   crypto.SHA3_256,
	"sha3-384":   crypto.SHA3_384,
	"sha3-512":   crypto.SHA3_512,
	"ripemd160":  crypto.RIPEMD160,
	"blake2b512": crypto.BLAKE2b_512,
	"blake2s256": crypto.BLAKE2s_256,
}

// Processor performs key operations
type Processor struct {
	entropy EntropySource
	logger  logger.Logger
}

// NewProcessor creates a Processor drawing randomness from entropy
func NewProcessor(entropy EntropySource, logger logger.Logger) *Processor {
	return &Processor{
		entropy: entropy,
		logger:  logger,
	}
}

// Generate creates a key pair. Bits applies to RSA, Curve to EC.
func (p *Processor) Generate(ctx context.Context, spec KeySpec) (*Key, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	rand := p.entropy.Reader(ctx)

	var (
		priv crypto.PrivateKey
		err  error
	)
	switch spec.Type {
	case TypeRSA:
		bits := spec.Bits
		if bits == 0 {
			bits = DefaultRSABits
		}
		priv, err = rsa.GenerateKey(rand, bits)
	case TypeEC:
		name := spec.Curve
		if name == "" {
			name = DefaultCurve
		}
		priv, err = ecdsa.GenerateKey(curves[name], rand)
	case TypeED25519:
		_, priv, err = ed25519.GenerateKey(rand)
	case TypeX25519:
		priv, err = ecdh.X25519().GenerateKey(rand)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s key: %w", spec.Type, err)
	}

	key, err := describePrivate(priv)
	if err != nil {
		return nil, err
	}
	p.logger.Debug(fmt.Sprintf("generated %s key of %d bits", key.Type, key.Bits))
	return key, nil
}

// Sign signs data. RSA and EC keys hash with digest first; ED25519 signs data directly and takes a nil digest.
// pss selects RSA-PSS over PKCS#1 v1.5.
func (p *Processor) Sign(ctx context.Context, key *Key, digest *algorithms.DigestMethod, data []byte, pss bool) ([]byte, error) {
	if !key.IsPrivate() {
		return nil, fmt.Errorf("%w: signing needs a private key", provider.ErrInvalidArgument)
	}
	rand := p.entropy.Reader(ctx)

	switch sk := key.Private.(type) {
	case ed25519.PrivateKey:
		return ed25519.Sign(sk, data), nil
	case *rsa.PrivateKey:
		id, sum, err := hashFor(digest, data)
		if err != nil {
			return nil, err
		}
		if pss {
			return rsa.SignPSS(rand, sk, id, sum, &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
		}
		return rsa.SignPKCS1v15(rand, sk, id, sum)
	case *ecdsa.PrivateKey:
		_, sum, err := hashFor(digest, data)
		if err != nil {
			return nil, err
		}
		return ecdsa.SignASN1(rand, sk, sum)
	}
	return nil, fmt.Errorf("%w: %s keys cannot sign", ErrUnsupportedKey, key.Type)
}

// Verify checks a signature made by Sign. A signature that does not match is (false, nil).
func (p *Processor) Verify(key *Key, digest *algorithms.DigestMethod, data, signature []byte, pss bool) (bool, error) {
	switch pk := key.Public.(type) {
	case ed25519.PublicKey:
		return ed25519.Verify(pk, data, signature), nil
	case *rsa.PublicKey:
		id, sum, err := hashFor(digest, data)
		if err != nil {
			return false, err
		}
		if pss {
			err = rsa.VerifyPSS(pk, id, sum, signature, &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
		} else {
			err = rsa.VerifyPKCS1v15(pk, id, sum, signature)
		}
		return err == nil, nil
	case *ecdsa.PublicKey:
		_, sum, err := hashFor(digest, data)
		if err != nil {
			return false, err
		}
		return ecdsa.VerifyASN1(pk, sum, signature), nil
	}
	return false, fmt.Errorf("%w: %s keys cannot verify", ErrUnsupportedKey, key.Type)
}

// Encrypt encrypts a short message to an RSA key with OAEP and SHA-256
func (p *Processor) Encrypt(ctx context.Context, key *Key, plainText []byte) ([]byte, error) {
	pk, ok := key.Public.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s keys cannot encrypt", ErrUnsupportedKey, key.Type)
	}
	if limit := pk.Size() - 2*sha256.Size - 2; len(plainText) > limit {
		return nil, fmt.Errorf("%w: message of %d bytes exceeds %d", provider.ErrInvalidArgument, len(plainText), limit)
	}
	return rsa.EncryptOAEP(sha256.New(), p.entropy.Reader(ctx), pk, plainText, nil)
}

// Decrypt reverses Encrypt
func (p *Processor) Decrypt(ctx context.Context, key *Key, cipherText []byte) ([]byte, error) {
	sk, ok := key.Private.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: decryption needs a private RSA key", ErrUnsupportedKey)
	}
	return rsa.DecryptOAEP(sha256.New(), p.entropy.Reader(ctx), sk, cipherText, nil)
}

// Derive computes the shared secret between a private EC or X25519 key and a peer public key of the same kind
func (p *Processor) Derive(key, peer *Key) ([]byte, error) {
	if !key.IsPrivate() {
		return nil, fmt.Errorf("%w: derivation needs a private key", provider.ErrInvalidArgument)
	}

	var (
		sk  *ecdh.PrivateKey
		pk  *ecdh.PublicKey
		err error
	)
	switch k := key.Private.(type) {
	case *ecdh.PrivateKey:
		sk = k
		pk, _ = peer.Public.(*ecdh.PublicKey)
	case *ecdsa.PrivateKey:
		if sk, err = k.ECDH(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedKey, err)
		}
		if epk, ok := peer.Public.(*ecdsa.PublicKey); ok {
			if pk, err = epk.ECDH(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnsupportedKey, err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s keys cannot derive", ErrUnsupportedKey, key.Type)
	}
	if pk == nil {
		return nil, fmt.Errorf("%w: peer key is %s, want %s", provider.ErrInvalidArgument, peer.Type, key.Type)
	}
	secret, err := sk.ECDH(pk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrInvalidArgument, err)
	}
	return secret, nil
}

func hashFor(digest *algorithms.DigestMethod, data []byte) (crypto.Hash, []byte, error) {
	if digest == nil {
		return 0, nil, fmt.Errorf("%w: a digest is required", provider.ErrInvalidArgument)
	}
	id, ok := hashIDs[digest.Name]
	if !ok {
		return 0, nil, fmt.Errorf("%w: digest %s cannot be used for signatures", ErrUnsupportedKey, digest.Name)
	}
	return id, digest.Sum(data), nil
}
