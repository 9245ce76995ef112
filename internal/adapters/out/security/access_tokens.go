// Package security issues and verifies tokens and hashes passwords.
package security

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// accessClaims is the payload of an access token. The audience is the account role.
type accessClaims struct {
	User accessUser `json:"user"`
	jwt.RegisteredClaims
}

type accessUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// JWTIssuer signs HS256 access tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	roles  []string
	now    func() time.Time
}

// NewJWTIssuer creates an issuer accepting the given audiences (account roles).
func NewJWTIssuer(secret string, ttl time.Duration, roles ...string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("access token ttl", ttl, "1ns", "unbounded")
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, roles: roles, now: time.Now}, nil
}

func (i *JWTIssuer) Issue(subject ports.AccessSubject) (ports.AccessToken, error) {
	if !slices.Contains(i.roles, subject.Role) {
		return ports.AccessToken{}, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not an accepted audience", subject.Role))
	}

	now := i.now()
	expiresAt := now.Add(i.ttl).Truncate(time.Second)
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		User: accessUser{ID: subject.ID.String(), Name: subject.Name},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject.ID.String(),
			Audience:  jwt.ClaimStrings{subject.Role},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return ports.AccessToken{}, err
	}
	return ports.AccessToken{Token: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}

// Parse verifies signature, expiry and audience. Every failure is errs.ErrInvalidToken.
func (i *JWTIssuer) Parse(token string) (ports.AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)

	claims := &accessClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}); err != nil {
		return ports.AccessClaims{}, errs.NewInvalidTokenError(err)
	}

	if len(claims.Audience) != 1 || !slices.Contains(i.roles, claims.Audience[0]) {
		return ports.AccessClaims{}, errs.NewInvalidTokenError(errors.New("unexpected audience"))
	}
	if claims.ID == "" {
		return ports.AccessClaims{}, errs.NewInvalidTokenError(errors.New("missing jti"))
	}
	id, err := kernel.UUIDFromString(claims.User.ID)
	if err != nil {
		return ports.AccessClaims{}, errs.NewInvalidTokenError(err)
	}

	return ports.AccessClaims{
		Subject: ports.AccessSubject{
			ID:   id,
			Name: claims.User.Name,
			Role: claims.Audience[0],
		},
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
