package algorithms

import (
	"crypto/md5"  // #nosec G501 -- listed for interoperability, not used for security decisions
	"crypto/sha1" // #nosec G505 -- listed for interoperability, not used for security decisions
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"hash"

	"github.com/MGTheTrain/crypto-binding/internal/domain/provider"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // legacy digest kept for name-table parity
	"golang.org/x/crypto/sha3"
)

// DigestMethod describes a message digest known to the provider
type DigestMethod struct {
	Name      string
	NID       int
	Size      int
	BlockSize int
	New       func() hash.Hash
}

// Sum hashes data in one shot
func (d *DigestMethod) Sum(data []byte) []byte {
	h := d.New()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

func mustBlake2b512() hash.Hash {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	return h
}

func mustBlake2s256() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		panic(err)
	}
	return h
}

var builtinDigests = []struct {
	method  DigestMethod
	aliases []string
}{
	{DigestMethod{Name: "md5", NID: 4, Size: md5.Size, BlockSize: md5.BlockSize, New: md5.New}, []string{"MD5", "ssl3-md5"}},
	{DigestMethod{Name: "sha1", NID: 64, Size: sha1.Size, BlockSize: sha1.BlockSize, New: sha1.New}, []string{"SHA1", "ssl3-sha1"}},
	{DigestMethod{Name: "sha224", NID: 675, Size: sha256.Size224, BlockSize: sha256.BlockSize, New: sha256.New224}, []string{"SHA224"}},
	{DigestMethod{Name: "sha256", NID: 672, Size: sha256.Size, BlockSize: sha256.BlockSize, New: sha256.New}, []string{"SHA256"}},
	{DigestMethod{Name: "sha384", NID: 673, Size: sha512.Size384, BlockSize: sha512.BlockSize, New: sha512.New384}, []string{"SHA384"}},
	{DigestMethod{Name: "sha512", NID: 674, Size: sha512.Size, BlockSize: sha512.BlockSize, New: sha512.New}, []string{"SHA512"}},
	{DigestMethod{Name: "sha512-224", NID: 1094, Size: sha512.Size224, BlockSize: sha512.BlockSize, New: sha512.New512_224}, []string{"SHA512-224"}},
	{DigestMethod{Name: "sha512-256", NID: 1095, Size: sha512.Size256, BlockSize: sha512.BlockSize, New: sha512.New512_256}, []string{"SHA512-256"}},
	{DigestMethod{Name: "sha3-224", NID: 1096, Size: 28, BlockSize: 144, New: sha3.New224}, []string{"SHA3-224"}},
	{DigestMethod{Name: "sha3-256", NID: 1097, Size: 32, BlockSize: 136, New: sha3.New256}, []string{"SHA3-256"}},
	{DigestMethod{Name: "sha3-384", NID: 1098, Size: 48, BlockSize: 104, New: sha3.New384}, []string{"SHA3-384"}},
	{DigestMethod{Name: "sha3-512", NID: 1099, Size: 64, BlockSize: 72, New: sha3.New512}, []string{"SHA3-512"}},
	{DigestMethod{Name: "blake2b512", NID: 1056, Size: blake2b.Size, BlockSize: blake2b.BlockSize, New: mustBlake2b512}, []string{"BLAKE2b512"}},
	{DigestMethod{Name: "blake2s256", NID: 1057, Size: blake2s.Size, BlockSize: blake2s.BlockSize, New: mustBlake2s256}, []string{"BLAKE2s256"}},
	{DigestMethod{Name: "ripemd160", NID: 117, Size: ripemd160.Size, BlockSize: ripemd160.BlockSize, New: ripemd160.New}, []string{"RIPEMD160", "ripemd", "rmd160"}},
}

// RegisterDigests adds the built-in digests and their aliases to t
func RegisterDigests(t *Table) error {
	var errs []error
	for _, d := range builtinDigests {
		method := d.method
		if err := t.Add(provider.CategoryDigests, method.Name, &method); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, alias := range d.aliases {
			if err := t.Alias(provider.CategoryDigests, alias, method.Name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
