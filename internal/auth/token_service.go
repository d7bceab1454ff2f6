package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService signs and validates the two token kinds the system uses: the
// JWT bearer token carrying a user id, and the opaque password-reset token
// carrying an email. Both are signed with the same process-wide secret.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	resetTTL time.Duration
}

func NewTokenService(cfg *config.Configuration) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.Security.SecretKey),
		ttl:      cfg.Security.JWTExpire,
		resetTTL: cfg.Security.ResetTokenExpire,
	}
}

func (ts *TokenService) IssueToken(userID string) (string, error) {
	return ts.IssueTokenWithTTL(userID, ts.ttl)
}

func (ts *TokenService) IssueTokenWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// DecodeToken verifies the signature and expiry and returns the embedded user
// id. Expiry is reported as ErrExpiredToken; every other failure collapses to
// ErrInvalidToken so callers cannot distinguish tampering modes.
func (ts *TokenService) DecodeToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return ts.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

type resetPayload struct {
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expires_at"`
}

// IssueResetToken produces the password-reset token: an HMAC-signed
// urlsafe-base64 payload. Deliberately not a JWT, so a reset token can never
// be replayed as a bearer credential.
func (ts *TokenService) IssueResetToken(email string) (string, error) {
	return ts.IssueResetTokenWithTTL(email, ts.resetTTL)
}

func (ts *TokenService) IssueResetTokenWithTTL(email string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(resetPayload{
		Email:     email,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	})
	if err != nil {
		return "", err
	}

	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + ts.signReset(body), nil
}

func (ts *TokenService) DecodeResetToken(token string) (string, error) {
	body, sig, found := strings.Cut(token, ".")
	if !found {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(ts.signReset(body)), []byte(sig)) {
		return "", ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", ErrInvalidToken
	}
	var payload resetPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Email == "" {
		return "", ErrInvalidToken
	}
	if payload.ExpiresAt <= time.Now().Unix() {
		return "", ErrExpiredToken
	}
	return payload.Email, nil
}

func (ts *TokenService) signReset(body string) string {
	mac := hmac.New(sha256.New, ts.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
