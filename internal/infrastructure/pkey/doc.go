// Package pkey generates, parses and uses asymmetric key pairs. Randomness is drawn from the provider's strong generator.
package pkey
