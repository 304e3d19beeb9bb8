package session

import "time"

// Config drives bearer token verification. An empty Secret disables it.
type Config struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Enabled reports whether requests must carry a valid token.
func (c Config) Enabled() bool {
	return c.Secret != ""
}

// Claims are extracted from the JWT token.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}
