package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpost/newsletter-service/internal/core/domain"
	"github.com/quillpost/newsletter-service/internal/usecase"
)

const basicAuthChallenge = `Basic realm="publish"`

// NewsletterHandler exposes the issue publishing endpoint.
type NewsletterHandler struct {
	newsletters *usecase.NewsletterService
	logger      *zap.Logger
}

// NewNewsletterHandler builds a newsletter handler instance.
func NewNewsletterHandler(newsletters *usecase.NewsletterService, log *zap.Logger) *NewsletterHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &NewsletterHandler{newsletters: newsletters, logger: log}
}

// Publish validates the issue payload, authenticates the caller with Basic
// credentials, and delivers the issue to every confirmed subscriber. The
// payload is checked before credentials so malformed bodies never trigger a
// password verification.
func (h *NewsletterHandler) Publish(c *gin.Context) {
	var req PublishIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, NewErrorResponse(c, "invalid newsletter payload"))
		return
	}

	issue := domain.NewsletterIssue{
		Title: req.Title,
		Content: domain.IssueContent{
			HTML: req.Content.HTML,
			Text: req.Content.Text,
		},
	}

	err := h.newsletters.Publish(c.Request.Context(), c.GetHeader("Authorization"), issue)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", basicAuthChallenge)
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid credentials"))
			return
		}

		h.logger.Error("publish newsletter issue failed",
			zap.String("title", req.Title),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to publish newsletter issue"))
		return
	}

	c.Status(http.StatusOK)
}
