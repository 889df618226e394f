// Package engine keeps the provider's engine list: the dynamic loader, the builtin default engine and
// any engines the dynamic loader brings up by id.
package engine
