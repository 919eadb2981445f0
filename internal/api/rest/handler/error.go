package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dazuba/feature-votes/internal/apierrors"
	"github.com/dazuba/feature-votes/internal/logger"
	"github.com/dazuba/feature-votes/internal/model"
)

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the stable wire code and a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler translates errors into the error envelope.
type ErrorHandler struct {
	logger *logger.Logger
}

// NewErrorHandler creates an ErrorHandler.
func NewErrorHandler(logger *logger.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle is an echo.HTTPErrorHandler.
func (h *ErrorHandler) Handle(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	apiErr := h.translate(err)

	if apiErr.Status >= http.StatusInternalServerError {
		h.logger.Error("request error",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err.Error())
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(apiErr.Status)
	} else {
		writeErr = c.JSON(apiErr.Status, ErrorEnvelope{
			Error: ErrorBody{Code: apiErr.Code, Message: apiErr.Message},
		})
	}
	if writeErr != nil {
		h.logger.Error("failed to write error response",
			"error", writeErr.Error())
	}
}

func (h *ErrorHandler) translate(err error) *apierrors.APIError {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return &apierrors.APIError{
				Status:  http.StatusNotFound,
				Code:    apierrors.CodeNotFound,
				Message: "not found",
			}
		}
		return &apierrors.APIError{
			Status:  echoErr.Code,
			Code:    apierrors.CodeHTTPError,
			Message: http.StatusText(echoErr.Code),
		}
	}

	switch {
	case errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMismatch):
		return apierrors.NewErrInvalidAuthorizationToken()
	case errors.Is(err, model.ErrNotFound):
		return &apierrors.APIError{
			Status:  http.StatusNotFound,
			Code:    apierrors.CodeNotFound,
			Message: "not found",
		}
	}

	return apierrors.NewErrInternalServerError()
}
