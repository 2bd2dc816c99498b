package shared

import (
	"errors"

	"github.com/vcaremart/offerlink/internal/http/response"
	"github.com/vcaremart/offerlink/internal/logger"
	"github.com/vcaremart/offerlink/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondServiceError 把 service 层哨兵错误映射为统一响应码。
// 未识别的错误按内部错误处理并记录日志。
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, service.ErrNotFound.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, service.ErrForbidden.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, service.ErrInvalidClientID):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrOTPTooFrequent),
		errors.Is(err, service.ErrOTPTooManyAttempts):
		response.Error(c, response.CodeTooManyRequests, err.Error())
	case errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrPhoneNotRegistered),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrOTPExpired),
		errors.Is(err, service.ErrOTPInvalid),
		errors.Is(err, service.ErrInvalidOffer),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidTimeWindow),
		errors.Is(err, service.ErrInvalidBranch),
		errors.Is(err, service.ErrInvalidUser),
		errors.Is(err, service.ErrCaptchaRequired),
		errors.Is(err, service.ErrCaptchaInvalid):
		response.BadRequest(c, err.Error())
	default:
		RespondError(c, response.CodeInternal, "internal server error", err)
	}
}
