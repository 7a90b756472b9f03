// seed registers a handful of demo subscribers in the local dev database and
// prints their confirmation links instead of e-mailing them.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"regexp"

	"github.com/ErlanBelekov/newsletter/internal/domain"
	"github.com/ErlanBelekov/newsletter/internal/email"
	"github.com/ErlanBelekov/newsletter/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/newsletter/internal/token"
	"github.com/ErlanBelekov/newsletter/internal/usecase"
)

type subscriberSpec struct {
	name  string
	email string
}

var subscribers = []subscriberSpec{
	{"Ursula Le Guin", "ursula@seed.example.com"},
	{"Octavia Butler", "octavia@seed.example.com"},
	{"Ted Chiang", "ted@seed.example.com"},
	{"N. K. Jemisin", "nk@seed.example.com"},
	{"Iain Banks", "iain@seed.example.com"},
}

var linkPattern = regexp.MustCompile(`https?://\S+`)

// linkCollector stands in for a real provider and keeps each confirmation link.
type linkCollector struct {
	links map[domain.SubscriberEmail]string
}

func (c *linkCollector) Send(_ context.Context, msg email.Message) error {
	c.links[msg.To] = linkPattern.FindString(msg.Text)
	return nil
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}

	subscriberRepo := postgres.NewSubscriberRepository(pool)
	collector := &linkCollector{links: make(map[domain.SubscriberEmail]string)}
	uc := usecase.NewSubscriptionUsecase(usecase.Deps{
		Tx:          postgres.NewTxManager(pool),
		Subscribers: subscriberRepo,
		Tokens:      postgres.NewTokenRepository(pool),
		Generator:   token.NewRandomGenerator(),
		Email:       collector,
		BaseURL:     baseURL,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	// Skip addresses that already exist so re-runs stay idempotent.
	var inserted, skipped int
	for _, s := range subscribers {
		existing, err := subscriberRepo.FindByEmail(ctx, domain.SubscriberEmail(s.email))
		if err != nil {
			pool.Close()
			log.Fatalf("find %s: %v", s.email, err)
		}
		if len(existing) > 0 {
			skipped++
			continue
		}

		if err := uc.Subscribe(ctx, usecase.SubscribeInput{Name: s.name, Email: s.email}); err != nil {
			pool.Close()
			log.Fatalf("subscribe %s: %v", s.email, err)
		}
		inserted++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Subscribers created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()

	if len(collector.links) > 0 {
		fmt.Println("  Confirmation links:")
		for _, s := range subscribers {
			if link, ok := collector.links[domain.SubscriberEmail(s.email)]; ok {
				fmt.Printf("    %-28s %s\n", s.email, link)
			}
		}
		fmt.Println()
	}

	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Confirm one of the subscribers above:")
	fmt.Println()
	fmt.Println("    curl -i 'LINK'")
	fmt.Println("    # → HTTP/1.1 200 OK")
	fmt.Println()
	fmt.Println("  Register a new one:")
	fmt.Println()
	fmt.Printf("    curl -i -X POST %s/subscriptions \\\n", baseURL)
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"name\":\"le guin\",\"email\":\"ursula_le_guin@gmail.com\"}'\n")
	fmt.Println()
	fmt.Println("  Then check status in psql:")
	fmt.Println()
	fmt.Println("    SELECT email, status FROM subscriptions ORDER BY subscribed_at;")
}
