package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// classify maps a use case error onto its HTTP status and API error code.
func classify(err error) (int, string) {
	switch {
	case errs.IsInvalidRequest(err):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		return http.StatusConflict, CodeAlreadyExists
	case errors.Is(err, errs.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, CodeCapacityExceeded
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, errs.ErrStoreFault):
		return http.StatusServiceUnavailable, CodeStoreFault
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// writeError renders err as an API error body. Store faults and unclassified
// errors are logged because the client cannot act on them.
func (s *Server) writeError(ctx echo.Context, err error) error {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", ctx.Request().Method),
			zap.String("path", ctx.Path()),
			zap.String("code", code),
			zap.Error(err),
		)
	}
	return ctx.JSON(status, Error{Code: code, Message: err.Error()})
}

// HTTPErrorHandler renders echo's own errors (unknown routes, bad parameters,
// panics caught by Recover) in the API error format.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			logger.Error("Unhandled error", zap.String("path", ctx.Path()), zap.Error(err))
		}

		code := CodeInternal
		switch status {
		case http.StatusBadRequest:
			code = CodeInvalidRequest
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			code = CodeNotFound
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(status)
		} else {
			writeErr = ctx.JSON(status, Error{Code: code, Message: message})
		}
		if writeErr != nil {
			logger.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}
