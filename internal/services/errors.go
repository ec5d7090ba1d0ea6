package services

import "errors"

// Service-level sentinel errors. The transport layer maps these onto
// API error responses.
var (
	// ErrNotReady indicates no dataset has been loaded yet.
	ErrNotReady = errors.New("analysis service: dataset not loaded")
)
