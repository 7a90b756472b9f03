package handler

const (
	errInternalServer = "Internal server error"
	errMalformedBody  = "Request body is malformed"
	errMissingFields  = "Both name and email are required"
	errFieldType      = "name and email must be strings"
	errMissingToken   = "subscription_token is required"
	errUnknownToken   = "Subscription token is not recognised"
)
