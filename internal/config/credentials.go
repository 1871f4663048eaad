package config

import (
	"os"

	"github.com/jonathan/records-bot/internal/publish"
)

// Environment variables holding the posting credentials.
const (
	EnvAPIKey            = "API_KEY"
	EnvAPIKeySecret      = "API_KEY_SECRET"
	EnvAccessToken       = "ACCESS_TOKEN"
	EnvAccessTokenSecret = "ACCESS_TOKEN_SECRET"
)

// CredentialsFromEnv reads the posting credentials from the environment.
// Missing values are not reported here; the first request fails with an authentication error instead.
func CredentialsFromEnv() publish.Credentials {
	return publish.Credentials{
		APIKey:            os.Getenv(EnvAPIKey),
		APIKeySecret:      os.Getenv(EnvAPIKeySecret),
		AccessToken:       os.Getenv(EnvAccessToken),
		AccessTokenSecret: os.Getenv(EnvAccessTokenSecret),
	}
}
