package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmiru8/nailshop-api/internal/service"
)

// writeError maps service errors onto HTTP responses. notFoundStatus lets
// each route decide whether a missing entity is 400 or 404. Anything not
// part of the taxonomy is a dependency failure: logged, returned as a
// generic 500.
func writeError(c *gin.Context, log *slog.Logger, err error, notFoundStatus int) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
		return
	}

	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(notFoundStatus, gin.H{"error": nf.Error()})
		return
	}

	log.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
