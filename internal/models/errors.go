package models

import (
	"errors"
	"fmt"
)

type ValidationKind string

const (
	KindCaptionRequired          ValidationKind = "caption_required"
	KindScheduleDateRequired     ValidationKind = "schedule_date_required"
	KindScheduleTimeRequired     ValidationKind = "schedule_time_required"
	KindScheduleInvalid          ValidationKind = "schedule_invalid"
	KindTimezoneInvalid          ValidationKind = "timezone_invalid"
	KindUnsupportedPlatform      ValidationKind = "unsupported_platform"
	KindAccountRequired          ValidationKind = "account_required"
	KindAccountNotFound          ValidationKind = "account_not_found"
	KindAccountPlatformMismatch  ValidationKind = "account_platform_mismatch"
	KindPageRequired             ValidationKind = "page_required"
	KindPageNotFound             ValidationKind = "page_not_found"
	KindPageTokenMissing         ValidationKind = "page_token_missing"
	KindPageTokenInvalid         ValidationKind = "page_token_invalid"
	KindInstagramBusinessMissing ValidationKind = "instagram_business_account_missing"
	KindChannelRequired          ValidationKind = "channel_required"
	KindChannelNotFound          ValidationKind = "channel_not_found"
	KindYoutubeTokenMissing      ValidationKind = "youtube_token_missing"
	KindYoutubeTokenInvalid      ValidationKind = "youtube_token_invalid"
	KindTwitterAccountUnresolved ValidationKind = "twitter_account_unresolved"
	KindTwitterAccountMismatch   ValidationKind = "twitter_account_mismatch"
	KindMediaRequired            ValidationKind = "media_required"
	KindMediaLimitExceeded       ValidationKind = "media_limit_exceeded"
)

// ValidationError is a locally recoverable input problem found before any
// network call. Two ValidationErrors match under errors.Is when their kinds match.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func NewValidationError(kind ValidationKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is checks.
var (
	ErrCaptionRequired          = &ValidationError{Kind: KindCaptionRequired}
	ErrScheduleDateRequired     = &ValidationError{Kind: KindScheduleDateRequired}
	ErrScheduleTimeRequired     = &ValidationError{Kind: KindScheduleTimeRequired}
	ErrScheduleInvalid          = &ValidationError{Kind: KindScheduleInvalid}
	ErrTimezoneInvalid          = &ValidationError{Kind: KindTimezoneInvalid}
	ErrUnsupportedPlatform      = &ValidationError{Kind: KindUnsupportedPlatform}
	ErrAccountRequired          = &ValidationError{Kind: KindAccountRequired}
	ErrAccountNotFound          = &ValidationError{Kind: KindAccountNotFound}
	ErrAccountPlatformMismatch  = &ValidationError{Kind: KindAccountPlatformMismatch}
	ErrPageRequired             = &ValidationError{Kind: KindPageRequired}
	ErrPageNotFound             = &ValidationError{Kind: KindPageNotFound}
	ErrPageTokenMissing         = &ValidationError{Kind: KindPageTokenMissing}
	ErrPageTokenInvalid         = &ValidationError{Kind: KindPageTokenInvalid}
	ErrInstagramBusinessMissing = &ValidationError{Kind: KindInstagramBusinessMissing}
	ErrChannelRequired          = &ValidationError{Kind: KindChannelRequired}
	ErrChannelNotFound          = &ValidationError{Kind: KindChannelNotFound}
	ErrYoutubeTokenMissing      = &ValidationError{Kind: KindYoutubeTokenMissing}
	ErrYoutubeTokenInvalid      = &ValidationError{Kind: KindYoutubeTokenInvalid}
	ErrTwitterAccountUnresolved = &ValidationError{Kind: KindTwitterAccountUnresolved}
	ErrTwitterAccountMismatch   = &ValidationError{Kind: KindTwitterAccountMismatch}
	ErrMediaRequired            = &ValidationError{Kind: KindMediaRequired}
	ErrMediaLimitExceeded       = &ValidationError{Kind: KindMediaLimitExceeded}
)

const GenericNetworkFailure = "Failed to schedule post. Please try again."

// NetworkError covers a rejected request, a non-2xx response or an unparsable body.
type NetworkError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
