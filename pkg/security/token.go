package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInvalidState = errors.New("invalid or expired state token")
)

// StateMaxAge bounds the OAuth authorize round trip.
const StateMaxAge = 10 * time.Minute

// SessionClaims is the payload carried by a session token.
type SessionClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Nonce  string    `json:"nonce"`
	jwt.RegisteredClaims
}

type stateClaims struct {
	State string `json:"state"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens and short-lived OAuth state
// tokens with a shared HMAC secret.
type TokenManager struct {
	secret        []byte
	sessionMaxAge time.Duration
}

func NewTokenManager(secret string, sessionMaxAge time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), sessionMaxAge: sessionMaxAge}
}

// IssueSession creates a signed session token for a user. The embedded nonce
// makes every token unique even when issued within the same second.
func (m *TokenManager) IssueSession(userID uuid.UUID) (string, error) {
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		Nonce:  hex.EncodeToString(nonce),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.sessionMaxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifySession validates a session token and returns the user it belongs to.
func (m *TokenManager) VerifySession(tokenString string) (uuid.UUID, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return claims.UserID, nil
}

// IssueState creates a signed OAuth state token wrapping a random value.
// The raw value goes into the authorize URL; the signed wrapper goes into a
// cookie so the callback can be verified without server-side storage.
func (m *TokenManager) IssueState() (state string, signed string, err error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}
	state = hex.EncodeToString(raw)

	now := time.Now()
	claims := stateClaims{
		State: state,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(StateMaxAge)),
		},
	}

	signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", err
	}
	return state, signed, nil
}

// VerifyState checks that the state echoed by the OAuth provider matches the
// value sealed in the signed cookie token.
func (m *TokenManager) VerifyState(signed, state string) error {
	claims := &stateClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrInvalidState
	}
	if claims.State == "" || !ConstantTimeCompare(claims.State, state) {
		return ErrInvalidState
	}
	return nil
}

func (m *TokenManager) keyFunc(token *jwt.Token) (interface{}, error) {
	return m.secret, nil
}
