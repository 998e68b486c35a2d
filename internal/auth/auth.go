// Package auth keeps the backend session token on disk.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/idilsaglam/cusrr/internal/store/jsonstore"
)

const (
	credFileName = "credentials.json"
	// EnvToken overrides the stored token.
	EnvToken = "CUSRR_TOKEN"
)

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // from the JWT exp claim, if any
}

// Expired reports whether the token has a known expiry before now.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti != nil && ti.ExpiresAt != nil && !ti.ExpiresAt.After(now)
}

func credFilePath(dir string) string { return filepath.Join(dir, credFileName) }

// GetToken returns the session token, or nil when not logged in.
func GetToken(dir string) (*TokenInfo, error) {
	// 1) env override
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		tok := stripBearer(env)
		return &TokenInfo{Token: tok, Source: "env", ExpiresAt: Expiry(tok)}, nil
	}

	// 2) file
	var ti TokenInfo
	ok, err := jsonstore.Load(credFilePath(dir), &ti)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	if !ok {
		return nil, nil
	}
	ti.Token = stripBearer(ti.Token)
	ti.Source = "file"
	return &ti, nil
}

// SetToken stores token with owner-only permissions. The expiry is read
// from the token when it is a JWT.
func SetToken(dir, token string) (*TokenInfo, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	ti := &TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: Expiry(token),
	}
	if err := jsonstore.Save(credFilePath(dir), ti, 0o600); err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	return ti, nil
}

func DeleteToken(dir string) error {
	return jsonstore.Remove(credFilePath(dir))
}

// Expiry returns the exp claim of a JWT without verifying it. Opaque
// session tokens have no expiry.
func Expiry(token string) *time.Time {
	if strings.Count(token, ".") != 2 {
		return nil
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
