package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ErlanBelekov/newsletter/internal/domain"
	"github.com/ErlanBelekov/newsletter/internal/email"
	ctxlog "github.com/ErlanBelekov/newsletter/internal/log"
	"github.com/ErlanBelekov/newsletter/internal/metrics"
	"github.com/ErlanBelekov/newsletter/internal/repository"
	"github.com/ErlanBelekov/newsletter/internal/token"
)

const confirmationSubject = "Welcome!"

// Deps are the collaborators of SubscriptionUsecase. Now defaults to time.Now.
type Deps struct {
	Tx          repository.TxBeginner
	Subscribers repository.SubscriberRepository
	Tokens      repository.TokenRepository
	Generator   token.Generator
	Email       email.Sender
	BaseURL     string
	Logger      *slog.Logger
	Now         func() time.Time
}

type SubscriptionUsecase struct {
	tx          repository.TxBeginner
	subscribers repository.SubscriberRepository
	tokens      repository.TokenRepository
	generator   token.Generator
	email       email.Sender
	baseURL     string
	logger      *slog.Logger
	now         func() time.Time
}

func NewSubscriptionUsecase(d Deps) *SubscriptionUsecase {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &SubscriptionUsecase{
		tx:          d.Tx,
		subscribers: d.Subscribers,
		tokens:      d.Tokens,
		generator:   d.Generator,
		email:       d.Email,
		baseURL:     strings.TrimRight(d.BaseURL, "/"),
		logger:      d.Logger.With("component", "subscription_usecase"),
		now:         now,
	}
}

type SubscribeInput struct {
	Name  string
	Email string
}

// Subscribe validates the input, stores a pending subscriber together with
// its confirmation token in one transaction, and only after commit emails
// the confirmation link.
//
// A failed email leaves the committed subscriber in place; the returned
// error then wraps email.ErrSend.
func (u *SubscriptionUsecase) Subscribe(ctx context.Context, in SubscribeInput) error {
	name, err := domain.ParseSubscriberName(in.Name)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return err
	}
	addr, err := domain.ParseSubscriberEmail(in.Email)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return err
	}

	sub := domain.NewSubscriber(name, addr, u.now())
	ctx = ctxlog.WithSubscriberID(ctx, sub.ID)

	tok, err := u.register(ctx, sub)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeStoreError).Inc()
		return err
	}

	if err := u.sendConfirmation(ctx, addr, tok); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeEmailError).Inc()
		u.logger.WarnContext(ctx, "subscriber stored but confirmation email failed",
			"email", addr.Masked(), "error", err)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	u.logger.InfoContext(ctx, "subscriber registered", "email", addr.Masked())
	return nil
}

// register writes the subscriber and its token atomically. Any error before
// commit rolls the whole unit back.
func (u *SubscriptionUsecase) register(ctx context.Context, sub *domain.Subscriber) (tok domain.SubscriptionToken, err error) {
	tx, err := u.tx.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin registration: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				u.logger.ErrorContext(ctx, "rollback registration", "error", rbErr)
			}
		}
	}()

	if err = u.subscribers.Insert(ctx, tx, sub); err != nil {
		return "", fmt.Errorf("store subscriber: %w", err)
	}

	tok, err = u.generator.Generate()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	if err = u.tokens.Insert(ctx, tx, tok, sub.ID); err != nil {
		return "", fmt.Errorf("store subscription token: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit registration: %w", err)
	}
	return tok, nil
}

func (u *SubscriptionUsecase) sendConfirmation(ctx context.Context, to domain.SubscriberEmail, tok domain.SubscriptionToken) error {
	link := ConfirmationLink(u.baseURL, tok)
	msg := email.Message{
		To:      to,
		Subject: confirmationSubject,
		HTML: fmt.Sprintf(
			`Welcome to our newsletter!<br />Click <a href="%s">here</a> to confirm your subscription.`,
			html.EscapeString(link),
		),
		Text: fmt.Sprintf("Welcome to our newsletter!\nVisit %s to confirm your subscription.", link),
	}

	start := time.Now()
	err := u.email.Send(ctx, msg)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.EmailSendDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return err
}

// Confirm redeems a token from a confirmation link. Any token that is not in
// the store yields domain.ErrTokenNotFound; one that could never have been
// issued is rejected without a lookup. Redeeming the same token twice is not
// an error.
func (u *SubscriptionUsecase) Confirm(ctx context.Context, rawToken string) error {
	tok, err := domain.ParseSubscriptionToken(rawToken)
	if err != nil {
		metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
		return domain.ErrTokenNotFound
	}

	subscriberID, err := u.tokens.SubscriberIDByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeUnauthorized).Inc()
			return domain.ErrTokenNotFound
		}
		metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeStoreError).Inc()
		return fmt.Errorf("lookup token: %w", err)
	}
	ctx = ctxlog.WithSubscriberID(ctx, subscriberID)

	if err := u.subscribers.Confirm(ctx, subscriberID); err != nil {
		metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeStoreError).Inc()
		return fmt.Errorf("confirm subscriber: %w", err)
	}

	metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	u.logger.InfoContext(ctx, "subscriber confirmed")
	return nil
}

// ConfirmationLink renders <base>/subscriptions/confirm?subscription_token=<token>.
func ConfirmationLink(baseURL string, tok domain.SubscriptionToken) string {
	return strings.TrimRight(baseURL, "/") +
		"/subscriptions/confirm?subscription_token=" + url.QueryEscape(tok.String())
}
