package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hbiu/lms-backend/internal/api/handler"
	"github.com/hbiu/lms-backend/internal/core/domain"
)

const envProduction = "production"

type errorDetail struct {
	Detail string `json:"detail"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to a status code by their Kind.
//   - Renders validation failures as 400 with the rejected fields.
//   - Logs unexpected errors and only exposes their text outside production.
func NewHTTPErrorHandler(log zerolog.Logger, env string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := handler.ErrorEnvelope{Success: false, Timestamp: time.Now().UTC()}
		code := resolveError(err, env, c, &body)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", code).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func statusForKind(k domain.Kind) int {
	switch k {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func resolveError(err error, env string, c echo.Context, body *handler.ErrorEnvelope) int {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		body.Message = ve.Error()
		body.Errors = ve.Fields
		return http.StatusBadRequest
	}

	var de *domain.Error
	if errors.As(err, &de) {
		body.Message = de.Message
		return statusForKind(de.Kind)
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			body.Message = "API endpoint not found"
			body.Path = c.Request().URL.Path
			return he.Code
		}
		body.Message = fmt.Sprintf("%v", he.Message)
		return he.Code
	}

	body.Message = "Internal Server Error"
	if env != envProduction {
		body.Errors = []errorDetail{{Detail: err.Error()}}
	}
	return http.StatusInternalServerError
}
