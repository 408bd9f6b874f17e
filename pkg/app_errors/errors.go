package apperrors

import "errors"

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrEventNotPublished       = errors.New("event not published")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidStatusTransition = errors.New("invalid event status transition")
	ErrMediaNotFound           = errors.New("media not found")
	ErrUnknownDisk             = errors.New("unknown media disk")
	ErrCacheMiss               = errors.New("cache miss")
	ErrJobNotFound             = errors.New("cleanup job not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrInternalServerError     = errors.New("internal server error")
)
