package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dkuznecov/authgate/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := "user-123"
	email := "a@x.com"

	tok, err := GenerateToken(userID, email, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, userID)
	}
	if claims.Email != email {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, email)
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("token must carry an explicit expiry")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", "u1@x.com", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", "u2@x.com", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

// A token signed with the access secret must not verify under the refresh
// secret, and vice versa.
func TestParseToken_CrossSecret(t *testing.T) {
	t.Parallel()

	accessSecret := []byte("access")
	refreshSecret := []byte("refresh")

	access, err := GenerateToken("u3", "u3@x.com", accessSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	refresh, err := GenerateToken("u3", "u3@x.com", refreshSecret, 2*time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ParseToken(access, refreshSecret); err == nil {
		t.Fatalf("access token must not verify with the refresh secret")
	}
	if _, err := ParseToken(refresh, accessSecret); err == nil {
		t.Fatalf("refresh token must not verify with the access secret")
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

// A token signed with "none" or a non-HMAC method must be rejected even if
// its payload is well-formed.
func TestParseToken_AlgorithmConfusion(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u4", Email: "u4@x.com"})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := ParseToken(tok, []byte("k")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
