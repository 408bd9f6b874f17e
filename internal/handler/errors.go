package handler

import (
	"errors"
	"net/http"

	apperrors "running-events-backend/pkg/app_errors"
	"running-events-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound), errors.Is(err, apperrors.ErrEventNotPublished):
		log.Warn("Event not found")
		respondError(c, http.StatusNotFound, "Event not found or not published yet.")
	case errors.Is(err, apperrors.ErrJobNotFound):
		log.Warn("Cleanup job not found")
		respondError(c, http.StatusNotFound, "Cleanup job not found")
	case errors.Is(err, apperrors.ErrInvalidStatusTransition):
		log.Warn("Invalid status transition")
		respondError(c, http.StatusConflict, "Invalid status transition")
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		respondError(c, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, apperrors.ErrUnauthorized):
		log.Warn("Unauthorized")
		respondError(c, http.StatusUnauthorized, "Unauthorized")
	default:
		log.Error("Unexpected error")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
