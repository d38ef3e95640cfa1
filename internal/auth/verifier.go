package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const signingMethod = "HS256"

// Verifier validates bearer credentials against the shared HMAC secret.
// Verification is a pure check: no I/O, no retries.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier for the given secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a raw credential string (without the
// "Bearer " prefix) and returns the embedded subject. Failures map to a
// distinct rejection: missing, malformed, invalid_signature or expired.
func (v *Verifier) Verify(token string) (Subject, error) {
	if token == "" {
		return Subject{}, errMissingCredential
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{signingMethod}), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Subject{}, errInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return Subject{}, errExpired
		default:
			return Subject{}, errMalformed
		}
	}
	if !parsed.Valid || claims.Subject == "" {
		return Subject{}, errMalformed
	}

	subject := Subject{ID: claims.Subject}
	if claims.IssuedAt != nil {
		subject.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Time
	}
	return subject, nil
}

// Issuer mints signed bearer credentials for authenticated users.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an Issuer. TTL bounds the credential validity window.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a credential for the identity.
func (i *Issuer) Issue(identity Identity) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   identity.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
