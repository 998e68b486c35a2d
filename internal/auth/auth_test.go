package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenLifecycle(t *testing.T) {
	t.Setenv(EnvToken, "")
	dir := t.TempDir()

	ti, err := GetToken(dir)
	if err != nil || ti != nil {
		t.Fatalf("fresh dir: %v, %v", ti, err)
	}

	if _, err := SetToken(dir, "Bearer  abc123 "); err != nil {
		t.Fatalf("set: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, credFileName))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o", perm)
	}

	ti, err = GetToken(dir)
	if err != nil {
		t.Fatal(err)
	}
	if ti.Token != "abc123" || ti.Source != "file" || ti.ExpiresAt != nil {
		t.Fatalf("got %+v", ti)
	}

	if err := DeleteToken(dir); err != nil {
		t.Fatal(err)
	}
	if err := DeleteToken(dir); err != nil {
		t.Fatalf("delete twice: %v", err)
	}
	if ti, _ := GetToken(dir); ti != nil {
		t.Fatalf("still logged in: %+v", ti)
	}
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	if _, err := SetToken(dir, "from-file"); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvToken, "bearer from-env")
	ti, err := GetToken(dir)
	if err != nil {
		t.Fatal(err)
	}
	if ti.Token != "from-env" || ti.Source != "env" {
		t.Fatalf("got %+v", ti)
	}
}

func TestSetTokenEmpty(t *testing.T) {
	if _, err := SetToken(t.TempDir(), "Bearer "); err == nil {
		t.Fatalf("expected an error for an empty token")
	}
}

func TestExpiry(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	got := Expiry(tok)
	if got == nil || !got.Equal(exp) {
		t.Fatalf("Expiry = %v, want %v", got, exp)
	}
	ti := &TokenInfo{Token: tok, ExpiresAt: got}
	if !ti.Expired(time.Now()) {
		t.Errorf("token should be expired")
	}
	if Expiry("opaque-session-id") != nil {
		t.Errorf("opaque tokens have no expiry")
	}
}
