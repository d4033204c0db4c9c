package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
)

// Token is a signed session token along with its expiry.  The holder treats
// Value as opaque and sends it back in the Authorization header.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims is the token payload.  PrincipalID duplicates the subject as a
// number so verification does not depend on string parsing.
type Claims struct {
	PrincipalID uint64 `json:"pid"`
	jwt.RegisteredClaims
}

// Signer mints and checks HS256 session tokens with a process-wide secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a Signer issuing tokens that live for ttl.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue builds and signs a token for principalID.  The claims include the
// subject (sub), expiration (exp) and issued at (iat).
func (s *Signer) Issue(principalID uint64) (Token, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := Claims{
		PrincipalID: principalID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(principalID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// Parse validates raw and returns the principal it was issued for.  It does
// no I/O.
func (s *Signer) Parse(raw string) (uint64, error) {
	if raw == "" {
		return 0, apperr.Auth(apperr.ReasonMissing)
	}
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperr.Auth(apperr.ReasonExpired)
		}
		return 0, apperr.Auth(apperr.ReasonInvalid)
	}
	if !tok.Valid || claims.PrincipalID == 0 || claims.Subject != strconv.FormatUint(claims.PrincipalID, 10) {
		return 0, apperr.Auth(apperr.ReasonInvalid)
	}
	return claims.PrincipalID, nil
}
