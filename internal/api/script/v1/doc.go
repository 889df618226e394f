// Package v1 exposes the provider to Starlark as the "openssl" module: the top-level function table,
// the object handle type and the fixed set of sub-modules.
package v1
