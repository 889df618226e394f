package errqueue

import (
	"fmt"
	"sync"
)

// Library identifiers packed into the top byte of an error code
const (
	LibSys    = 2
	LibBN     = 3
	LibEVP    = 6
	LibOBJ    = 8
	LibPEM    = 9
	LibCrypto = 15
	LibSSL    = 20
	LibRand   = 36
	LibEngine = 38
	LibCOMP   = 41
)

// Reason codes, scoped by library
const (
	ReasonSysOpen  = 1
	ReasonSysRead  = 2
	ReasonSysWrite = 3
	ReasonSysDial  = 4

	ReasonBNInvalidHex = 102

	ReasonEVPUnsupportedAlgorithm = 118
	ReasonEVPInvalidKeyLength     = 130
	ReasonEVPDecryptFailed        = 101
	ReasonEVPUnsupportedKeyType   = 165
	ReasonEVPOperationFailed      = 150
	ReasonEVPKeygenFailed         = 120

	ReasonOBJInvalidOID  = 103
	ReasonOBJOIDExists   = 102
	ReasonOBJNameExists  = 104
	ReasonOBJUnknownNID  = 101
	ReasonOBJInvalidSpec = 105

	ReasonPEMNoStartLine = 108
	ReasonPEMBadKey      = 100

	ReasonRandNotSeeded      = 100
	ReasonRandEntropySource  = 101
	ReasonRandEGDFailure     = 102
	ReasonRandNoDefaultFile  = 103
	ReasonRandNotRegularFile = 122

	ReasonSSLNoCipherMatch = 185

	ReasonEngineNotFound   = 116
	ReasonEngineInitFailed = 109

	ReasonCryptoInitFailed = 115

	ReasonCOMPDeflateError      = 99
	ReasonCOMPInflateError      = 100
	ReasonCOMPUnsupportedMethod = 101
)

// Pack combines a library and a reason into an error code
func Pack(lib, reason int) uint32 {
	return uint32(lib&0xFF)<<24 | uint32(reason&0xFFF)
}

// Library extracts the library from an error code
func Library(code uint32) int {
	return int(code >> 24)
}

// Reason extracts the reason from an error code
func Reason(code uint32) int {
	return int(code & 0xFFF)
}

var libraryNames = map[int]string{
	LibSys:    "system library",
	LibBN:     "bignum routines",
	LibEVP:    "digital envelope routines",
	LibOBJ:    "object identifier routines",
	LibPEM:    "PEM routines",
	LibCrypto: "common libcrypto routines",
	LibSSL:    "SSL routines",
	LibRand:   "random number generator",
	LibEngine: "engine routines",
	LibCOMP:   "compression routines",
}

var reasonNames = map[uint32]string{
	Pack(LibSys, ReasonSysOpen):  "open failed",
	Pack(LibSys, ReasonSysRead):  "read failed",
	Pack(LibSys, ReasonSysWrite): "write failed",
	Pack(LibSys, ReasonSysDial):  "connect failed",

	Pack(LibBN, ReasonBNInvalidHex): "invalid hex string",

	Pack(LibEVP, ReasonEVPUnsupportedAlgorithm): "unsupported algorithm",
	Pack(LibEVP, ReasonEVPInvalidKeyLength):     "invalid key length",
	Pack(LibEVP, ReasonEVPDecryptFailed):        "bad decrypt",
	Pack(LibEVP, ReasonEVPUnsupportedKeyType):   "unsupported key type",
	Pack(LibEVP, ReasonEVPOperationFailed):      "operation not supported for this keytype",
	Pack(LibEVP, ReasonEVPKeygenFailed):         "keygen failure",

	Pack(LibPEM, ReasonPEMNoStartLine): "no start line",
	Pack(LibPEM, ReasonPEMBadKey):      "bad key",

	Pack(LibOBJ, ReasonOBJInvalidOID):  "invalid oid string",
	Pack(LibOBJ, ReasonOBJOIDExists):   "oid exists",
	Pack(LibOBJ, ReasonOBJNameExists):  "name exists",
	Pack(LibOBJ, ReasonOBJUnknownNID):  "unknown nid",
	Pack(LibOBJ, ReasonOBJInvalidSpec): "invalid object specification",

	Pack(LibRand, ReasonRandNotSeeded):      "PRNG not seeded",
	Pack(LibRand, ReasonRandEntropySource):  "entropy source failure",
	Pack(LibRand, ReasonRandEGDFailure):     "EGD query failed",
	Pack(LibRand, ReasonRandNoDefaultFile):  "no default seed file",
	Pack(LibRand, ReasonRandNotRegularFile): "not a regular file",

	Pack(LibSSL, ReasonSSLNoCipherMatch): "no cipher match",

	Pack(LibEngine, ReasonEngineNotFound):   "no such engine",
	Pack(LibEngine, ReasonEngineInitFailed): "init failed",

	Pack(LibCrypto, ReasonCryptoInitFailed): "init fail",

	Pack(LibCOMP, ReasonCOMPDeflateError):      "zlib deflate error",
	Pack(LibCOMP, ReasonCOMPInflateError):      "zlib inflate error",
	Pack(LibCOMP, ReasonCOMPUnsupportedMethod): "unsupported compression method",
}

// Strings is the provider's error-string table. Until Load is called codes render numerically.
type Strings struct {
	mu      sync.RWMutex
	libs    map[int]string
	reasons map[uint32]string
}

// NewStrings creates an empty table
func NewStrings() *Strings {
	return &Strings{}
}

// Load installs the library and reason names. Loading twice is harmless.
func (s *Strings) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.libs != nil {
		return
	}
	s.libs = make(map[int]string, len(libraryNames))
	for k, v := range libraryNames {
		s.libs[k] = v
	}
	s.reasons = make(map[uint32]string, len(reasonNames))
	for k, v := range reasonNames {
		s.reasons[k] = v
	}
}

// Loaded reports whether the names are installed
func (s *Strings) Loaded() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.libs != nil
}

// LibraryName returns the library name of a code, or "lib(N)"
func (s *Strings) LibraryName(code uint32) string {
	lib := Library(code)
	if s != nil {
		s.mu.RLock()
		name, ok := s.libs[lib]
		s.mu.RUnlock()
		if ok {
			return name
		}
	}
	return fmt.Sprintf("lib(%d)", lib)
}

// Format renders a code as "error:XXXXXXXX:library::reason"
func (s *Strings) Format(code uint32) string {
	reason := fmt.Sprintf("reason(%d)", Reason(code))
	if s != nil {
		s.mu.RLock()
		name, ok := s.reasons[Pack(Library(code), Reason(code))]
		s.mu.RUnlock()
		if ok {
			reason = name
		}
	}
	return fmt.Sprintf("error:%08X:%s::%s", code, s.LibraryName(code), reason)
}
