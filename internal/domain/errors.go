package domain

import "errors"

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrBehaviorNotFound   = errors.New("behavior not found")
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrInvalidPreferences = errors.New("invalid preferences")
	ErrCannotMatchSelf    = errors.New("cannot match user with themselves")
	ErrUnknownFeature     = errors.New("unknown special feature")
	ErrUnknownOutcome     = errors.New("unknown interaction outcome")
	ErrUnauthorized       = errors.New("unauthorized")
)
