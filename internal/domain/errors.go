package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrNotConfigured     = errors.New("generation credential not configured")
	ErrDecode            = errors.New("image decode failed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidInput      = errors.New("invalid input")
	ErrProviderFailure   = errors.New("provider failure")
	ErrExtraction        = errors.New("provider response contained no image")
	ErrFetch             = errors.New("result fetch failed")
	ErrPersist           = errors.New("artifact persist failed")
	ErrDuplicateAttempt  = errors.New("generation already attempted")
	ErrWrongStage        = errors.New("action not allowed in current step")
)
