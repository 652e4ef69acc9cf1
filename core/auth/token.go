package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// TokenIssuer signs and verifies bearer tokens (HS256).
type TokenIssuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(conf *core.Config) *TokenIssuer {
	return &TokenIssuer{
		key:    []byte(conf.SecretKey),
		issuer: conf.AppName,
		ttl:    conf.Server.JWTExpirationDelta,
		now:    time.Now,
	}
}

// Issue generates a signed token for p, valid for the configured TTL.
func (ti *TokenIssuer) Issue(p Principal) (string, error) {
	now := ti.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
		Email: p.Email,
		Role:  p.Role,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// Parse verifies the token and returns the Principal it carries.
func (ti *TokenIssuer) Parse(token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, core.NewAuthError(core.AuthMissingToken, "No token provided")
	}

	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (interface{}, error) { return ti.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ti.issuer),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return Principal{}, core.NewAuthError(core.AuthInvalidToken, "Invalid token")
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || !claims.Role.Valid() {
		return Principal{}, core.NewAuthError(core.AuthInvalidToken, "Invalid token")
	}
	return Principal{ID: id, Email: claims.Email, Role: claims.Role}, nil
}
