package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Ritu-90/c25077715-cmt120-cw2/services/policy"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuerName is the iss claim of every token this service signs
const TokenIssuerName = "portfolio"

var (
	// ErrInvalidToken is returned when a token fails signature or claim checks
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrAnonymousToken is returned when asked to sign a session without identity
	ErrAnonymousToken = errors.New("cannot issue a token for an anonymous session")
)

// Claims are the JWT claims carrying a session
type Claims struct {
	jwt.RegisteredClaims
	Admin  bool   `json:"adm,omitempty"`
	UserID *int64 `json:"uid,omitempty"`
}

// TokenIssuer signs and verifies HS256 session tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer signing with secret
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the session and returns it with its expiry
func (i *TokenIssuer) Issue(s policy.Session) (string, time.Time, error) {
	if s.IsAnonymous() {
		return "", time.Time{}, ErrAnonymousToken
	}

	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if s.IsAdmin {
		claims.Admin = true
		claims.Subject = "admin"
	} else {
		id := *s.UserID
		claims.UserID = &id
		claims.Subject = strconv.FormatInt(id, 10)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies the token and returns the session it carries
func (i *TokenIssuer) Parse(tokenString string) (policy.Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return policy.Anonymous(), ErrTokenExpired
		}
		return policy.Anonymous(), fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	switch {
	case claims.Admin && claims.UserID != nil:
		return policy.Anonymous(), fmt.Errorf("%w: token carries both admin and user", ErrInvalidToken)
	case claims.Admin:
		return policy.Admin(), nil
	case claims.UserID != nil:
		return policy.User(*claims.UserID), nil
	default:
		return policy.Anonymous(), fmt.Errorf("%w: token carries no identity", ErrInvalidToken)
	}
}
