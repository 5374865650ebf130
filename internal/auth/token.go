package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenInvalid = errors.New("session token invalid")
	ErrTokenExpired = errors.New("session token expired")
)

// Session is the decoded content of a valid token.
type Session struct {
	Username string
	Role     string
	Expires  time.Time
}

// TokenSigner mints and validates client-held session tokens. A token is
// base64url(username|role|expiresUnix) + "." + hex HMAC-SHA256 of the payload.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenSigner creates a TokenSigner.
func NewTokenSigner(secret []byte, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: secret, ttl: ttl}
}

// Issue returns a signed token for the given identity.
func (s *TokenSigner) Issue(username, role string) string {
	return s.issueAt(username, role, time.Now().Add(s.ttl))
}

func (s *TokenSigner) issueAt(username, role string, expires time.Time) string {
	payload := fmt.Sprintf("%s|%s|%d", username, role, expires.Unix())
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + s.sign(payload)
}

// Parse validates a token and returns its session. Expired tokens return
// ErrTokenExpired; anything malformed or tampered returns ErrTokenInvalid.
func (s *TokenSigner) Parse(token string) (*Session, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrTokenInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	payload := string(raw)
	if !hmac.Equal([]byte(s.sign(payload)), []byte(sig)) {
		return nil, ErrTokenInvalid
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return nil, ErrTokenInvalid
	}
	exp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if time.Now().Unix() > exp {
		return nil, ErrTokenExpired
	}
	return &Session{
		Username: parts[0],
		Role:     parts[1],
		Expires:  time.Unix(exp, 0),
	}, nil
}

func (s *TokenSigner) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
