// Package token issues and verifies capability tokens: signed, self-contained
// credentials binding a holder to one file id and one token class. Expiry is
// the sole invalidation mechanism; there is no revocation list.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Class is the action a token authorizes.
type Class string

const (
	ClassGeneral        Class = "general"
	ClassDownload       Class = "download"
	ClassRewardDownload Class = "reward-download"
)

// Verification failure reasons. All map to HTTP 401 but carry distinct
// user-facing messages.
var (
	ErrMalformed    = errors.New("malformed token")
	ErrExpired      = errors.New("token has expired")
	ErrWrongClass   = errors.New("token class not valid for this operation")
	ErrBadSignature = errors.New("token signature invalid")
)

// Claims are the embedded token claims.
type Claims struct {
	FileID string `json:"fileId"`
	Class  Class  `json:"class"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies capability tokens with a process-wide HS256 secret.
type Issuer struct {
	secret []byte

	// now is the time source, replaceable in tests.
	now func() time.Time
}

// NewIssuer creates an Issuer using the given signing secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue produces a signed token for fileID with the given class and ttl.
func (i *Issuer) Issue(fileID string, class Class, ttl time.Duration) (string, error) {
	now := i.now()

	claims := Claims{
		FileID: fileID,
		Class:  class,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature, expiry and class, returning the embedded file id.
// Failures are one of ErrMalformed, ErrExpired, ErrBadSignature, ErrWrongClass.
func (i *Issuer) Verify(raw string, required Class) (string, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrBadSignature
		default:
			return "", ErrMalformed
		}
	}

	if claims.Class != required {
		return "", ErrWrongClass
	}

	return claims.FileID, nil
}
