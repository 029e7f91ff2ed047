// Package types defines the record types, partition keys, configuration,
// and standard errors for the temple record store.
package types
