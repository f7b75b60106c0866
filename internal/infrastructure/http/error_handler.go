package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// errorResponse is the error envelope of every ops endpoint.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// newHTTPErrorHandler renders {"error", "kind"} and maps the dashboard error
// taxonomy onto status codes. Unclassified errors are logged and hidden.
func newHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var de *domain.Error
	if errors.As(err, &de) {
		body := errorResponse{Error: de.Message, Kind: de.Kind.String()}
		switch de.Kind {
		case domain.KindValidation:
			return http.StatusBadRequest, body
		case domain.KindAuth:
			if errors.Is(err, domain.ErrForbidden) {
				return http.StatusForbidden, body
			}
			return http.StatusUnauthorized, body
		case domain.KindTransport:
			return http.StatusBadGateway, body
		case domain.KindServer:
			return http.StatusBadGateway, body
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
