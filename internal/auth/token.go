// Package auth hashes passwords and issues and verifies the bearer tokens
// that carry a caller's identity.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller, as embedded in a token.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// IssueToken signs an HS256 token for id that expires after TokenTTL.
func (s *Service) IssueToken(id Identity) (string, error) {
	now := s.now()
	claims := &Claims{
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature and expiry and returns the embedded
// identity. Every failure is ErrInvalidToken.
func (s *Service) VerifyToken(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: id, Email: claims.Email, Name: claims.Name}, nil
}

// Failure names why a request could not be authenticated.
type Failure int

const (
	FailureNone Failure = iota
	FailureMissing
	FailureInvalid
)

func (f Failure) Message() string {
	switch f {
	case FailureMissing:
		return "Missing auth token"
	case FailureInvalid:
		return "Invalid auth token"
	}
	return ""
}

// Result is the outcome of Authenticate: an Identity when Failure is
// FailureNone.
type Result struct {
	Identity Identity
	Failure  Failure
}

func (r Result) OK() bool { return r.Failure == FailureNone }

// Authenticate resolves an Authorization header value.
func (s *Service) Authenticate(header string) Result {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return Result{Failure: FailureMissing}
	}

	id, err := s.VerifyToken(tokenString)
	if err != nil {
		return Result{Failure: FailureInvalid}
	}
	return Result{Identity: id}
}
