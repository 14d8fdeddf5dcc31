package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-manga-reader/internal/config"
	apperrors "go-manga-reader/internal/errors"
	"go-manga-reader/internal/logger"
	"go-manga-reader/internal/pipeline"
	"go-manga-reader/internal/recognizer"
	"go-manga-reader/internal/repository"
	"go-manga-reader/pkg/models"
)

type ReadRequest struct {
	URL          string `json:"url" binding:"required,url"`
	ExpectedText string `json:"expected_text,omitempty"`
}

type ReadResponse struct {
	models.PageResult
	Evaluation *models.TranscriptEvaluation `json:"evaluation,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func NewHandler(reader *pipeline.PageReader, repo repository.PageRepository, cfg *config.Config) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.POST("/read", readPage(reader, repo, cfg))

	return r
}

func readPage(reader *pipeline.PageReader, repo repository.PageRepository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing page read request")

		var req ReadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		if err := repo.ValidatePageURL(req.URL); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"url": req.URL,
				"ip":  c.ClientIP(),
			}).Error("Invalid page URL")
			respondError(c, apperrors.GetStatusCode(err), "invalid page URL", err)
			return
		}

		logger.WithField("url", req.URL).Debug("Fetching page image")

		fetchCtx, fetchCancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		img, err := repo.FetchPage(fetchCtx, req.URL)
		fetchCancel()
		if err != nil {
			var fetchErr *apperrors.AppError
			if errors.Is(err, context.DeadlineExceeded) {
				fetchErr = apperrors.NewTimeoutError("Page fetch timeout", err)
			} else {
				fetchErr = apperrors.NewNetworkError("Failed to fetch page image", err)
			}

			logger.WithError(fetchErr).WithFields(logrus.Fields{
				"url": req.URL,
				"ip":  c.ClientIP(),
			}).Error("Failed to fetch page image")

			respondError(c, fetchErr.StatusCode, "failed to fetch page image", fetchErr)
			return
		}

		result, err := reader.ReadPage(ctx, img, req.URL, 1)
		if err != nil {
			logger.WithError(err).WithField("url", req.URL).Error("Failed to read page")
			respondError(c, apperrors.GetStatusCode(err), "failed to read page", err)
			return
		}

		resp := ReadResponse{PageResult: result}
		if req.ExpectedText != "" {
			eval := recognizer.Evaluate(req.ExpectedText, joinTexts(result.Texts))
			resp.Evaluation = &eval
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"url":                req.URL,
			"regions":            len(result.TextRegions),
			"processing_time_ms": duration.Milliseconds(),
		}).Info("Page read completed successfully")

		c.JSON(http.StatusOK, resp)
	}
}

func joinTexts(texts []string) string {
	return strings.Join(texts, " ")
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
