package generator

import "errors"

// Configuration errors are fatal: the simulation refuses to start (or aborts)
// rather than producing inconsistent data.
var (
	ErrInvalidScale         = errors.New("scale parameters must be positive integers")
	ErrEmptyProviderCatalog = errors.New("provider catalog is empty")
	ErrEmptyLocationCatalog = errors.New("location catalog is empty")
	ErrEmptyPlatformCatalog = errors.New("platform catalog is empty")
	ErrEmptyServerPool      = errors.New("server pool is empty")
	ErrUnknownProvider      = errors.New("unknown provider reference")
)
