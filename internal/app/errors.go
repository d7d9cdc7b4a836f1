package app

import "errors"

// Controller errors
var (
	// ErrQueryTooShort is returned by Search for queries shorter than query.MinSearchLength
	ErrQueryTooShort = errors.New("search query too short")
)
