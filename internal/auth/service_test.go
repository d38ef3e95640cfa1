package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/anitrack/anitrack/internal/auth"
	"github.com/anitrack/anitrack/internal/shared"
)

func newAuthService(users *mockUserStore) *auth.Service {
	return auth.NewService(users, auth.NewIssuer(testSecret, time.Hour))
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestSignInIssuesVerifiableToken(t *testing.T) {
	users := newMockUserStore()
	users.add(auth.UserCredentials{
		Identity:     auth.Identity{UserID: "user-1", Email: "one@test.local", DisplayName: "One"},
		PasswordHash: hashPassword(t, "hunter22"),
	})
	svc := newAuthService(users)

	identity, token, err := svc.SignIn(context.Background(), "one@test.local", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)

	subject, err := auth.NewVerifier(testSecret).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject.ID)
}

func TestSignInWrongPassword(t *testing.T) {
	users := newMockUserStore()
	users.add(auth.UserCredentials{
		Identity:     auth.Identity{UserID: "user-1", Email: "one@test.local"},
		PasswordHash: hashPassword(t, "hunter22"),
	})
	svc := newAuthService(users)

	_, _, err := svc.SignIn(context.Background(), "one@test.local", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	// Unknown email and wrong password are indistinguishable to the caller.
	svc := newAuthService(newMockUserStore())
	_, _, err := svc.SignIn(context.Background(), "nobody@test.local", "whatever")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSignUpThenSignIn(t *testing.T) {
	users := newMockUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	identity, token, err := svc.SignUp(ctx, "new@test.local", "Newcomer", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "new@test.local", identity.Email)

	signedIn, _, err := svc.SignIn(ctx, "new@test.local", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, signedIn.UserID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	users := newMockUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "dup@test.local", "First", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "dup@test.local", "Second", "s3cret-pass")
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}
