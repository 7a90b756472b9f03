package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/newsletter/internal/domain"
)

func TestParseSubscriberName_Valid(t *testing.T) {
	for _, raw := range []string{"Alice", "  Ursula Le Guin  ", "ё", strings.Repeat("a", domain.MaxNameLength)} {
		name, err := domain.ParseSubscriberName(raw)
		if err != nil {
			t.Errorf("ParseSubscriberName(%q): unexpected error: %v", raw, err)
			continue
		}
		if string(name) != strings.TrimSpace(raw) {
			t.Errorf("ParseSubscriberName(%q) = %q, want trimmed input", raw, name)
		}
	}
}

func TestParseSubscriberName_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"whitespace only":  " \t ",
		"too long":         strings.Repeat("a", domain.MaxNameLength+1),
		"too long (runes)": strings.Repeat("ё", domain.MaxNameLength+1),
	}
	for _, c := range `/()"<>\{}` {
		cases["contains "+string(c)] = "Ali" + string(c) + "ce"
	}

	for desc, raw := range cases {
		if _, err := domain.ParseSubscriberName(raw); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: want ErrValidation, got %v", desc, err)
		}
	}
}

func TestParseSubscriberEmail_Valid(t *testing.T) {
	for _, raw := range []string{"alice@example.com", "a.b+tag@mail.example.co.uk", " bob@example.org "} {
		email, err := domain.ParseSubscriberEmail(raw)
		if err != nil {
			t.Errorf("ParseSubscriberEmail(%q): unexpected error: %v", raw, err)
			continue
		}
		if string(email) != strings.TrimSpace(raw) {
			t.Errorf("ParseSubscriberEmail(%q) = %q", raw, email)
		}
	}
}

func TestParseSubscriberEmail_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"missing at":       "alice.example.com",
		"missing local":    "@example.com",
		"missing domain":   "alice@",
		"domain no dot":    "alice@localhost",
		"domain dot first": "alice@.com",
		"domain dot last":  "alice@example.",
		"double dot":       "alice@example..com",
		"inner whitespace": "ali ce@example.com",
		"plain name":       "Ursula",
	}
	for desc, raw := range cases {
		if _, err := domain.ParseSubscriberEmail(raw); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s (%q): want ErrValidation, got %v", desc, raw, err)
		}
	}
}

func TestSubscriberEmail_Masked(t *testing.T) {
	if got := domain.SubscriberEmail("alice@example.com").Masked(); got != "a***@example.com" {
		t.Errorf("Masked = %q", got)
	}
}

func TestNewSubscriber_StartsPending(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.FixedZone("X", 3600))
	s := domain.NewSubscriber("Alice", "alice@example.com", now)

	if s.Status != domain.StatusPendingConfirmation {
		t.Errorf("Status = %q, want pending_confirmation", s.Status)
	}
	if s.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("ID was not generated")
	}
	if !s.SubscribedAt.Equal(now) || s.SubscribedAt.Location() != time.UTC {
		t.Errorf("SubscribedAt = %v, want %v in UTC", s.SubscribedAt, now)
	}

	other := domain.NewSubscriber("Alice", "alice@example.com", now)
	if other.ID == s.ID {
		t.Error("two subscribers share an ID")
	}
}

func TestParseSubscriptionToken(t *testing.T) {
	if _, err := domain.ParseSubscriptionToken("abcdefghijklmnopqrstuvwxy"); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}

	for _, raw := range []string{"", "short", "abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnopqrstuvwx-"} {
		if _, err := domain.ParseSubscriptionToken(raw); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("ParseSubscriptionToken(%q): want ErrValidation, got %v", raw, err)
		}
	}
}
