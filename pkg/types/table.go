package types

import "errors"

// Record operation errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidID     = errors.New("invalid record ID")
	ErrInvalidData   = errors.New("invalid record data")
	ErrInvalidFilter = errors.New("invalid filter value")
)

// Storage errors.
var (
	ErrStoreClosed        = errors.New("store is closed")
	ErrAlreadyOpen        = errors.New("store is already open")
	ErrTableNotFound      = errors.New("table not found")
	ErrInvalidKey         = errors.New("invalid storage key")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrMalformedPartition = errors.New("malformed partition data")
	ErrWatchUnsupported   = errors.New("backend does not support watching")
)

// Auth and media errors.
var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrInvalidPasswordHash = errors.New("invalid password hash")
	ErrNotImage            = errors.New("content is not an image")
	ErrImageTooLarge       = errors.New("image exceeds size limit")
)
