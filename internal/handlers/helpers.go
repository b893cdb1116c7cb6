package handlers

import (
	"errors"
	"net/http"

	"github.com/kapilnath546/study-buddies/internal/apperror"
	"github.com/kapilnath546/study-buddies/internal/models"
	"github.com/labstack/echo/v4"
)

// currentClaims returns the JWT claims stored by the auth middleware
func currentClaims(c echo.Context) (*models.JwtCustomClaims, error) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return claims, nil
}

// httpError maps the error taxonomy onto HTTP responses. Errors outside
// the taxonomy are classified first, so raw store errors degrade to the
// transient connection case instead of leaking details.
func httpError(err error) *echo.HTTPError {
	classified := apperror.Classify(err)
	var appErr apperror.Error
	if !errors.As(classified, &appErr) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	switch appErr {
	case apperror.ErrAuth:
		return echo.NewHTTPError(http.StatusUnauthorized, appErr.Error())
	case apperror.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, appErr.Error())
	case apperror.ErrConstraint, apperror.ErrDuplicate:
		return echo.NewHTTPError(http.StatusConflict, appErr.Error())
	case apperror.ErrStorage:
		return echo.NewHTTPError(http.StatusBadGateway, appErr.Error())
	default: // apperror.ErrConnection
		return echo.NewHTTPError(http.StatusServiceUnavailable, appErr.Error())
	}
}
