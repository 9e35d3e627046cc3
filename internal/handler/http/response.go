package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domainErrors "github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/errors"
)

// SuccessResponse is the envelope of every successful response with a body.
type SuccessResponse struct {
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorBody carries the client-facing error data. Trace holds the underlying
// cause and is only filled in debug mode.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Trace   string `json:"trace,omitempty"`
}

// ErrorResponse is the envelope of every failed response.
type ErrorResponse struct {
	Status  int       `json:"status"`
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// respondSuccess writes the success envelope with the given status and data.
func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Status: status, Success: true, Data: data})
}

// respondEmpty writes an empty success without a body.
func respondEmpty(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// respondError translates any error into the error envelope. Unexpected
// errors are degraded to a generic 500 and logged with their cause; expected
// application errors are logged at debug level only.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	appErr := domainErrors.AsAppError(err)

	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
	} else {
		logger.Debug("request rejected",
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.String("message", appErr.Message),
		)
	}

	body := ErrorBody{Message: appErr.Message, Code: appErr.Code}
	if gin.Mode() == gin.DebugMode && appErr.Err != nil {
		body.Trace = appErr.Err.Error()
	}

	c.AbortWithStatusJSON(appErr.StatusCode, ErrorResponse{
		Status:  appErr.StatusCode,
		Success: false,
		Error:   body,
	})
}

// respondBindingError maps gin binding failures onto the error taxonomy:
// bodies that fail validation keep the validation code, anything that could
// not even be parsed gets the parse code.
func respondBindingError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		respondError(c, logger, domainErrors.NewValidation(validationErrs.Error()))
		return
	}
	respondError(c, logger, domainErrors.NewFailedParse("Could not parse the request payload. Please, check the request format."))
}
