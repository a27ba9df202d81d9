package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// currentUserID returns the authenticated caller's id injected by the JWT
// middleware.
func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	hex, ok := c.Get("userID").(string)
	if !ok || hex == "" {
		return primitive.NilObjectID, models.NewUnauthorizedError("User not authenticated")
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, models.NewUnauthorizedError("User not authenticated")
	}
	return id, nil
}

// respondError maps a domain error to its HTTP status and an {error} body.
// Anything outside the taxonomy is logged and reported as a generic internal
// failure; the client always gets a JSON body.
func respondError(c echo.Context, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			log.Error().Err(appErr.Err).Str("path", c.Path()).Msg(appErr.Message)
		}
		return c.JSON(httpStatus(appErr.Code), models.ErrorResponse{Error: appErr.Message})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unexpected error")
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
}

func httpStatus(code string) int {
	switch code {
	case models.CodeValidation, models.CodeSelfReference:
		return http.StatusBadRequest
	case models.CodeUnauthorized:
		return http.StatusUnauthorized
	case models.CodeForbidden:
		return http.StatusForbidden
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseObjectID parses a path parameter as a MongoDB ObjectID.
func parseObjectID(c echo.Context, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError("Invalid id")
	}
	return id, nil
}
