package ports

import "errors"

var (
	ErrMalformedEvent   = errors.New("malformed event")
	ErrTransientStorage = errors.New("storage temporarily unavailable")
	ErrPermanentStorage = errors.New("storage error")
	ErrAIBackend        = errors.New("ai backend error")
	ErrDispatch         = errors.New("reply dispatch failed")
)
