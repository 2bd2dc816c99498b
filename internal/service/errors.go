package service

import "errors"

// 业务哨兵错误，由 HTTP 层统一映射为响应码
var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidClientID    = errors.New("invalid client id")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password does not meet policy")

	ErrPhoneNotRegistered = errors.New("phone number not registered")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrOTPExpired         = errors.New("otp expired or not requested")
	ErrOTPInvalid         = errors.New("invalid otp")
	ErrOTPTooManyAttempts = errors.New("too many otp attempts")
	ErrOTPTooFrequent     = errors.New("otp requested too frequently")

	ErrInvalidOffer      = errors.New("invalid offer")
	ErrInvalidDateRange  = errors.New("valid_from must not be after valid_to")
	ErrInvalidTimeWindow = errors.New("daily window times must be provided together and start must not be after end")
	ErrInvalidBranch     = errors.New("invalid branch")
	ErrInvalidUser       = errors.New("invalid user")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)
