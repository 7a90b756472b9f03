package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
)

const MaxNameLength = 256

const forbiddenNameChars = `/()"<>\{}`

type SubscriberName string

// ParseSubscriberName trims surrounding whitespace and rejects empty,
// overlong, or names containing characters that are unsafe to echo into HTML.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name is longer than %d characters", ErrValidation, MaxNameLength)
	}
	if i := strings.IndexAny(name, forbiddenNameChars); i >= 0 {
		return "", fmt.Errorf("%w: name contains forbidden character %q", ErrValidation, name[i])
	}
	return SubscriberName(name), nil
}

func (n SubscriberName) String() string { return string(n) }

type SubscriberEmail string

// ParseSubscriberEmail accepts the minimal local@domain.tld shape: a non-empty
// local part, a domain with an inner dot, and no whitespace.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return "", fmt.Errorf("%w: email is empty", ErrValidation)
	}
	if strings.IndexFunc(addr, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: email contains whitespace", ErrValidation)
	}

	at := strings.LastIndexByte(addr, '@')
	if at <= 0 {
		return "", fmt.Errorf("%w: email %q has no local part", ErrValidation, addr)
	}
	domainPart := addr[at+1:]
	dot := strings.IndexByte(domainPart, '.')
	if dot <= 0 || strings.HasSuffix(domainPart, ".") || strings.Contains(domainPart, "..") {
		return "", fmt.Errorf("%w: email %q has an invalid domain", ErrValidation, addr)
	}
	return SubscriberEmail(addr), nil
}

func (e SubscriberEmail) String() string { return string(e) }

// Masked renders the address for logs: first letter of the local part only.
func (e SubscriberEmail) Masked() string {
	s := string(e)
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return "***"
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r) + "***" + s[at:]
}

type Subscriber struct {
	ID           uuid.UUID
	Email        SubscriberEmail
	Name         SubscriberName
	Status       Status
	SubscribedAt time.Time
}

// NewSubscriber returns a subscriber awaiting confirmation with a fresh ID.
func NewSubscriber(name SubscriberName, email SubscriberEmail, now time.Time) *Subscriber {
	return &Subscriber{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Status:       StatusPendingConfirmation,
		SubscribedAt: now.UTC(),
	}
}
