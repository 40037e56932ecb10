package services

import "errors"

// Common service errors
var (
	ErrNoRun              = errors.New("no reconciliation run available")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownArtifact    = errors.New("unknown report artifact")
)
