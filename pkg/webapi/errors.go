package webapi

import (
	"errors"
	"net/http"

	"github.com/cloudgoose/storage/pkg/cgdb/stor"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps domain errors onto HTTP status codes. Anything unrecognized
// is a 500 so callers can tell invalid input apart from system failure.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, stor.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, stor.ErrDuplicateName), errors.Is(err, stor.ErrDuplicateUsername):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, stor.ErrEmptyName),
		errors.Is(err, stor.ErrInvalidInput),
		errors.Is(err, stor.ErrSameFolder),
		errors.Is(err, stor.ErrCycle):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, stor.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
