package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fundhouse/internal/service"
	"github.com/fundhouse/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if fields := fieldErrors(err); len(fields) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": message, "fields": fields})
			return false
		}
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parseUintQuery(c *gin.Context, key string) uint {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Query(key)), 10, 32)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func parseIntQuery(c *gin.Context, key string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return parsed
}

// parsePaging reads page/perPage; invalid values fall back to the service defaults.
func parsePaging(c *gin.Context) (int, int) {
	return parseIntQuery(c, "page"), parseIntQuery(c, "perPage")
}

func parseBoolQuery(c *gin.Context, key string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && parsed
}

// respondInvalid writes a 400 for service field errors and reports whether it did.
func respondInvalid(c *gin.Context, err error) bool {
	var fieldErr *service.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  fieldErr.Error(),
			"fields": gin.H{fieldErr.Field: fieldErr.Message},
		})
		return true
	}
	if errors.Is(err, service.ErrInvalidInput) {
		respondError(c, http.StatusBadRequest, err.Error())
		return true
	}
	return false
}

// respondUploadError maps storage rejections and reports whether it wrote a response.
func respondUploadError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, storage.ErrFileMissing):
		respondError(c, http.StatusBadRequest, "upload file is required")
	case errors.Is(err, storage.ErrFileTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, "upload file is too large")
	case errors.Is(err, storage.ErrFileType):
		respondError(c, http.StatusUnsupportedMediaType, "upload file type is not allowed")
	default:
		return false
	}
	return true
}

func (a *API) respondInternal(c *gin.Context, err error, message string) {
	a.logger.Error(message,
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	respondError(c, http.StatusInternalServerError, message)
}

func parseUintQuerySlice(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			parsed, err := strconv.ParseUint(trimmed, 10, 32)
			if err != nil {
				continue
			}
			ids = append(ids, uint(parsed))
		}
	}
	return ids
}
