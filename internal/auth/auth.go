package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller as resolved from a bearer token.
type Identity struct {
	UID   string
	Email string
}

// TokenVerifier resolves a bearer credential to an identity. The concrete
// implementation stands in for the managed identity provider.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

type jwtVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) TokenVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Identity{}, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, errors.New("invalid sub")
	}
	email, _ := claims["email"].(string)

	return Identity{UID: sub, Email: email}, nil
}

// RoleResolver decides whether an identity carries the admin role.
type RoleResolver interface {
	IsAdmin(ctx context.Context, ident Identity) (bool, error)
}

// AllowListResolver grants admin to a fixed set of emails, matched
// trimmed and case-insensitively.
type AllowListResolver struct {
	emails map[string]struct{}
}

func NewAllowListResolver(emails []string) *AllowListResolver {
	m := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			m[e] = struct{}{}
		}
	}
	return &AllowListResolver{emails: m}
}

func (r *AllowListResolver) IsAdmin(_ context.Context, ident Identity) (bool, error) {
	_, ok := r.emails[strings.ToLower(strings.TrimSpace(ident.Email))]
	return ok, nil
}
