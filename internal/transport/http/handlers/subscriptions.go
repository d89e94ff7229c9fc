package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/quillpost/newsletter-service/internal/core/domain"
	"github.com/quillpost/newsletter-service/internal/infra/logger"
	"github.com/quillpost/newsletter-service/internal/usecase"
)

// SubscriptionHandler exposes endpoints for starting and confirming subscriptions.
type SubscriptionHandler struct {
	subscriptions *usecase.SubscriptionService
	logger        *zap.Logger
}

// NewSubscriptionHandler builds a subscription handler instance.
func NewSubscriptionHandler(subscriptions *usecase.SubscriptionService, log *zap.Logger) *SubscriptionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubscriptionHandler{subscriptions: subscriptions, logger: log}
}

// Subscribe accepts a form-encoded subscription request and stores the
// subscriber as pending until the emailed token is confirmed. A missing form
// field is a malformed request; a present but invalid value is unprocessable.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	name, hasName := c.GetPostForm("name")
	email, hasEmail := c.GetPostForm("email")
	if !hasName || !hasEmail {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name and email form fields are required"))
		return
	}

	subscriber, err := h.subscriptions.Subscribe(c.Request.Context(), name, email)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusUnprocessableEntity, NewErrorResponse(c, validationErr.Error()))
			return
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			h.logger.Warn("duplicate subscription attempt",
				zap.String("email", logger.MaskEmail(email)),
				zap.String("constraint", pgErr.ConstraintName),
			)
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to store subscription"))
			return
		}

		h.logger.Error("subscribe failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to store subscription"))
		return
	}

	h.logger.Info("subscription stored",
		zap.String("subscriber_id", subscriber.ID),
		zap.String("email", logger.MaskEmail(subscriber.Email)),
	)
	c.Status(http.StatusOK)
}

// Confirm activates a pending subscription identified by its token.
func (h *SubscriptionHandler) Confirm(c *gin.Context) {
	token, ok := c.GetQuery("subscription_token")
	if !ok || token == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "subscription_token query parameter is required"))
		return
	}

	if err := h.subscriptions.Confirm(c.Request.Context(), token); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUnknownToken, Status: http.StatusUnauthorized, Message: "unknown subscription token"},
		}, http.StatusInternalServerError, "failed to confirm subscription")
		return
	}

	c.Status(http.StatusOK)
}
