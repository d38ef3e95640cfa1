package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anitrack/anitrack/internal/auth"
)

const testSecret = "unit-test-secret"

func mustIssue(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	token, err := auth.NewIssuer(secret, ttl).Issue(auth.Identity{UserID: "user-1", Email: "one@test.local"})
	require.NoError(t, err)
	return token
}

func rejectionCode(t *testing.T, err error) auth.ReasonCode {
	t.Helper()
	rej, ok := auth.AsRejection(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	return rej.Code
}

func TestVerifyValidToken(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)
	subject, err := verifier.Verify(mustIssue(t, testSecret, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject.ID)
	assert.False(t, subject.ExpiresAt.IsZero())
}

func TestVerifyMissingToken(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)
	_, err := verifier.Verify("")
	assert.Equal(t, auth.ReasonMissingCredential, rejectionCode(t, err))
}

func TestVerifyMalformedToken(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)
	for _, token := range []string{"garbage", "a.b", "a.b.c.d"} {
		_, err := verifier.Verify(token)
		assert.Equal(t, auth.ReasonMalformedCredential, rejectionCode(t, err), "token %q", token)
	}
}

func TestVerifyWrongSecretIsSignatureNotMalformed(t *testing.T) {
	// A well-formed token signed with a different secret must be reported
	// as an invalid signature, never as malformed.
	verifier := auth.NewVerifier(testSecret)
	_, err := verifier.Verify(mustIssue(t, "some-other-secret", time.Hour))
	assert.Equal(t, auth.ReasonInvalidSignature, rejectionCode(t, err))
}

func TestVerifyExpiredTokenWithValidSignature(t *testing.T) {
	verifier := auth.NewVerifier(testSecret)
	_, err := verifier.Verify(mustIssue(t, testSecret, -time.Minute))
	assert.Equal(t, auth.ReasonExpiredCredential, rejectionCode(t, err))
}
