package objects

import "github.com/MGTheTrain/crypto-binding/internal/domain/provider"

// FirstDynamicNID is the lowest numeric id handed to runtime registrations
const FirstDynamicNID = 1195

var builtinObjects = []provider.Object{
	{NID: 4, ShortName: "MD5", LongName: "md5", OID: "1.2.840.113549.2.5"},
	{NID: 6, ShortName: "rsaEncryption", LongName: "rsaEncryption", OID: "1.2.840.113549.1.1.1"},
	{NID: 13, ShortName: "CN", LongName: "commonName", OID: "2.5.4.3"},
	{NID: 14, ShortName: "C", LongName: "countryName", OID: "2.5.4.6"},
	{NID: 15, ShortName: "L", LongName: "localityName", OID: "2.5.4.7"},
	{NID: 16, ShortName: "ST", LongName: "stateOrProvinceName", OID: "2.5.4.8"},
	{NID: 17, ShortName: "O", LongName: "organizationName", OID: "2.5.4.10"},
	{NID: 18, ShortName: "OU", LongName: "organizationalUnitName", OID: "2.5.4.11"},
	{NID: 20, ShortName: "pkcs7", LongName: "pkcs7", OID: "1.2.840.113549.1.7"},
	{NID: 21, ShortName: "pkcs7-data", LongName: "pkcs7-data", OID: "1.2.840.113549.1.7.1"},
	{NID: 22, ShortName: "pkcs7-signedData", LongName: "pkcs7-signedData", OID: "1.2.840.113549.1.7.2"},
	{NID: 23, ShortName: "pkcs7-envelopedData", LongName: "pkcs7-envelopedData", OID: "1.2.840.113549.1.7.3"},
	{NID: 28, ShortName: "dhKeyAgreement", LongName: "dhKeyAgreement", OID: "1.2.840.113549.1.3.1"},
	{NID: 48, ShortName: "emailAddress", LongName: "emailAddress", OID: "1.2.840.113549.1.9.1"},
	{NID: 50, ShortName: "contentType", LongName: "contentType", OID: "1.2.840.113549.1.9.3"},
	{NID: 51, ShortName: "messageDigest", LongName: "messageDigest", OID: "1.2.840.113549.1.9.4"},
	{NID: 52, ShortName: "signingTime", LongName: "signingTime", OID: "1.2.840.113549.1.9.5"},
	{NID: 64, ShortName: "SHA1", LongName: "sha1", OID: "1.3.14.3.2.26"},
	{NID: 65, ShortName: "RSA-SHA1", LongName: "sha1WithRSAEncryption", OID: "1.2.840.113549.1.1.5"},
	{NID: 82, ShortName: "subjectKeyIdentifier", LongName: "X509v3 Subject Key Identifier", OID: "2.5.29.14"},
	{NID: 83, ShortName: "keyUsage", LongName: "X509v3 Key Usage", OID: "2.5.29.15"},
	{NID: 85, ShortName: "subjectAltName", LongName: "X509v3 Subject Alternative Name", OID: "2.5.29.17"},
	{NID: 87, ShortName: "basicConstraints", LongName: "X509v3 Basic Constraints", OID: "2.5.29.19"},
	{NID: 90, ShortName: "authorityKeyIdentifier", LongName: "X509v3 Authority Key Identifier", OID: "2.5.29.35"},
	{NID: 116, ShortName: "DSA", LongName: "dsaEncryption", OID: "1.2.840.10040.4.1"},
	{NID: 117, ShortName: "RIPEMD160", LongName: "ripemd160", OID: "1.3.36.3.2.1"},
	{NID: 126, ShortName: "extendedKeyUsage", LongName: "X509v3 Extended Key Usage", OID: "2.5.29.37"},
	{NID: 129, ShortName: "serverAuth", LongName: "TLS Web Server Authentication", OID: "1.3.6.1.5.5.7.3.1"},
	{NID: 130, ShortName: "clientAuth", LongName: "TLS Web Client Authentication", OID: "1.3.6.1.5.5.7.3.2"},
	{NID: 131, ShortName: "codeSigning", LongName: "Code Signing", OID: "1.3.6.1.5.5.7.3.3"},
	{NID: 408, ShortName: "id-ecPublicKey", LongName: "id-ecPublicKey", OID: "1.2.840.10045.2.1"},
	{NID: 415, ShortName: "prime256v1", LongName: "prime256v1", OID: "1.2.840.10045.3.1.7"},
	{NID: 419, ShortName: "AES-128-CBC", LongName: "aes-128-cbc", OID: "2.16.840.1.101.3.4.1.2"},
	{NID: 423, ShortName: "AES-192-CBC", LongName: "aes-192-cbc", OID: "2.16.840.1.101.3.4.1.22"},
	{NID: 427, ShortName: "AES-256-CBC", LongName: "aes-256-cbc", OID: "2.16.840.1.101.3.4.1.42"},
	{NID: 668, ShortName: "RSA-SHA256", LongName: "sha256WithRSAEncryption", OID: "1.2.840.113549.1.1.11"},
	{NID: 669, ShortName: "RSA-SHA384", LongName: "sha384WithRSAEncryption", OID: "1.2.840.113549.1.1.12"},
	{NID: 670, ShortName: "RSA-SHA512", LongName: "sha512WithRSAEncryption", OID: "1.2.840.113549.1.1.13"},
	{NID: 671, ShortName: "RSA-SHA224", LongName: "sha224WithRSAEncryption", OID: "1.2.840.113549.1.1.14"},
	{NID: 672, ShortName: "SHA256", LongName: "sha256", OID: "2.16.840.1.101.3.4.2.1"},
	{NID: 673, ShortName: "SHA384", LongName: "sha384", OID: "2.16.840.1.101.3.4.2.2"},
	{NID: 674, ShortName: "SHA512", LongName: "sha512", OID: "2.16.840.1.101.3.4.2.3"},
	{NID: 675, ShortName: "SHA224", LongName: "sha224", OID: "2.16.840.1.101.3.4.2.4"},
	{NID: 715, ShortName: "secp384r1", LongName: "secp384r1", OID: "1.3.132.0.34"},
	{NID: 716, ShortName: "secp521r1", LongName: "secp521r1", OID: "1.3.132.0.35"},
	{NID: 794, ShortName: "ecdsa-with-SHA256", LongName: "ecdsa-with-SHA256", OID: "1.2.840.10045.4.3.2"},
	{NID: 795, ShortName: "ecdsa-with-SHA384", LongName: "ecdsa-with-SHA384", OID: "1.2.840.10045.4.3.3"},
	{NID: 796, ShortName: "ecdsa-with-SHA512", LongName: "ecdsa-with-SHA512", OID: "1.2.840.10045.4.3.4"},
	{NID: 799, ShortName: "hmacWithSHA256", LongName: "hmacWithSHA256", OID: "1.2.840.113549.2.9"},
	{NID: 895, ShortName: "id-aes128-GCM", LongName: "aes-128-gcm", OID: "2.16.840.1.101.3.4.1.6"},
	{NID: 901, ShortName: "id-aes256-GCM", LongName: "aes-256-gcm", OID: "2.16.840.1.101.3.4.1.46"},
	{NID: 1034, ShortName: "X25519", LongName: "X25519", OID: "1.3.101.110"},
	{NID: 1056, ShortName: "BLAKE2b512", LongName: "blake2b512", OID: "1.3.6.1.4.1.1722.12.2.1.16"},
	{NID: 1087, ShortName: "ED25519", LongName: "ED25519", OID: "1.3.101.112"},
	{NID: 1096, ShortName: "SHA3-224", LongName: "sha3-224", OID: "2.16.840.1.101.3.4.2.7"},
	{NID: 1097, ShortName: "SHA3-256", LongName: "sha3-256", OID: "2.16.840.1.101.3.4.2.8"},
	{NID: 1098, ShortName: "SHA3-384", LongName: "sha3-384", OID: "2.16.840.1.101.3.4.2.9"},
	{NID: 1099, ShortName: "SHA3-512", LongName: "sha3-512", OID: "2.16.840.1.101.3.4.2.10"},
}
