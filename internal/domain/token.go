package domain

import "fmt"

const (
	TokenLength   = 25
	TokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// SubscriptionToken is the bearer secret embedded in a confirmation link.
type SubscriptionToken string

// ParseSubscriptionToken checks length and alphabet only; whether the token
// exists is a question for the token store.
func ParseSubscriptionToken(raw string) (SubscriptionToken, error) {
	if len(raw) != TokenLength {
		return "", fmt.Errorf("%w: token must be %d characters", ErrValidation, TokenLength)
	}
	for i := 0; i < len(raw); i++ {
		if !isAlphanumeric(raw[i]) {
			return "", fmt.Errorf("%w: token contains a non-alphanumeric character", ErrValidation)
		}
	}
	return SubscriptionToken(raw), nil
}

func (t SubscriptionToken) String() string { return string(t) }

func isAlphanumeric(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
