//go:build mage

// Package main provides build targets for the temple project using Mage.
//
// Usage:
//
//	mage build          Compile the temple binary to bin/
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Write a coverage profile to bin/coverage.out
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install temple to GOPATH/bin
//	mage seed           Create a local store under .temple-db with default records
//	mage stats          Print production and test line counts per package
package main

// Binary names.
const (
	binGo   = "go"
	binLint = "golangci-lint"
)
