package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/newsletter/internal/domain"
	"github.com/ErlanBelekov/newsletter/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// subscriptionUsecaser is the subset of SubscriptionUsecase the handler needs.
type subscriptionUsecaser interface {
	Subscribe(ctx context.Context, in usecase.SubscribeInput) error
	Confirm(ctx context.Context, rawToken string) error
}

type SubscriptionHandler struct {
	subscriptions subscriptionUsecaser
	logger        *slog.Logger
}

func NewSubscriptionHandler(subscriptions subscriptionUsecaser, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		logger:        logger.With("component", "subscription_handler"),
	}
}

// Accepted as JSON or as an HTML form post.
type subscribeRequest struct {
	Name  string `json:"name"  form:"name"  binding:"required"`
	Email string `json:"email" form:"email" binding:"required"`
}

// POST /subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		var verrs validator.ValidationErrors
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &verrs):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errMissingFields})
		case errors.As(err, &typeErr):
			// Well-formed JSON whose fields have the wrong type.
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errFieldType})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": errMalformedBody})
		}
		return
	}

	err := h.subscriptions.Subscribe(c.Request.Context(), usecase.SubscribeInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "subscribe", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusOK)
}

// GET /subscriptions/confirm?subscription_token=<token>
func (h *SubscriptionHandler) Confirm(c *gin.Context) {
	rawToken, ok := c.GetQuery("subscription_token")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errMissingToken})
		return
	}

	err := h.subscriptions.Confirm(c.Request.Context(), rawToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnknownToken})
		default:
			h.logger.ErrorContext(c.Request.Context(), "confirm subscription", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.Status(http.StatusOK)
}
