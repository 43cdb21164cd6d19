package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/mercato-app/mercato/internal/auth"
)

type testConfig struct{}

func (testConfig) GetSigningKey() string   { return "test-signing-key" }
func (testConfig) GetTokenExpiration() int { return 24 }
func (testConfig) GetIssuer() string       { return "test-issuer" }
func (testConfig) GetAudience() []string   { return []string{"test-audience"} }

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	err = db.ResetModel(context.Background(), (*auth.User)(nil))
	require.NoError(t, err)

	return db
}

type testEnv struct {
	db   *bun.DB
	repo auth.RepositoryManager
}

func newTestAuther(t *testing.T) (*auth.Auther, testEnv) {
	t.Helper()

	db := newTestDB(t)
	repo := auth.NewRepositoryManager(db)
	require.NoError(t, repo.Validate())

	return auth.NewAuthenticator(repo, testConfig{}), testEnv{db: db, repo: repo}
}

func TestRegisterAndLogin(t *testing.T) {
	auther, _ := newTestAuther(t)
	ctx := context.Background()

	user, err := auther.Register(ctx, auth.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "p1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "p1", user.PasswordHash)

	token, err := auther.Login(ctx, "alice@example.com", "p1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := auther.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auther, env := newTestAuther(t)
	ctx := context.Background()

	_, err := auther.Register(ctx, auth.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "p1",
	})
	require.NoError(t, err)

	_, err = auther.Register(ctx, auth.RegisterInput{
		Name:     "Mallory",
		Email:    "alice@example.com",
		Password: "other",
	})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	// The original account is untouched.
	user, err := env.repo.Users().GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	auther, _ := newTestAuther(t)
	ctx := context.Background()

	_, err := auther.Register(ctx, auth.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "p1",
	})
	require.NoError(t, err)

	_, wrongPassword := auther.Login(ctx, "alice@example.com", "nope")
	_, unknownEmail := auther.Login(ctx, "nobody@example.com", "p1")

	assert.ErrorIs(t, wrongPassword, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, auth.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	auther, env := newTestAuther(t)
	ctx := context.Background()

	user, err := auther.Register(ctx, auth.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "p1",
	})
	require.NoError(t, err)

	token, err := auther.Login(ctx, "alice@example.com", "p1")
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := auther.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := auther.Authenticate(ctx, token+"x")
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("foreign signing key", func(t *testing.T) {
		other := auth.NewTokenService(
			[]byte("other-key"), 24, "test-issuer", []string{"test-audience"}, nil,
		)
		forged, err := other.Generate(user)
		require.NoError(t, err)

		_, err = auther.Authenticate(ctx, forged)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("deleted subject", func(t *testing.T) {
		_, err := env.db.NewDelete().
			Model((*auth.User)(nil)).
			Where("id = ?", user.ID).
			Exec(ctx)
		require.NoError(t, err)

		_, err = auther.Authenticate(ctx, token)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}

func TestUpdateSelf(t *testing.T) {
	auther, _ := newTestAuther(t)
	ctx := context.Background()

	register := func(t *testing.T, email string) *auth.User {
		user, err := auther.Register(ctx, auth.RegisterInput{
			Name:     "Alice",
			Email:    email,
			Password: "p1",
		})
		require.NoError(t, err)
		return user
	}

	t.Run("requires current password", func(t *testing.T) {
		user := register(t, "a1@example.com")

		_, err := auther.UpdateSelf(ctx, user, auth.UpdateSelfInput{
			CurrentPassword: "wrong",
			Name:            auth.Set("Eve"),
		})
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)

		// Name unchanged after the failed attempt.
		got, err := auther.Login(ctx, "a1@example.com", "p1")
		require.NoError(t, err)
		current, err := auther.Authenticate(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, "Alice", current.Name)
	})

	t.Run("updates name", func(t *testing.T) {
		user := register(t, "a2@example.com")

		updated, err := auther.UpdateSelf(ctx, user, auth.UpdateSelfInput{
			CurrentPassword: "p1",
			Name:            auth.Set("Alicia"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Alicia", updated.Name)
		assert.Equal(t, user.Email, updated.Email)
	})

	t.Run("updates password", func(t *testing.T) {
		user := register(t, "a3@example.com")

		_, err := auther.UpdateSelf(ctx, user, auth.UpdateSelfInput{
			CurrentPassword: "p1",
			Password:        auth.Set("p2"),
		})
		require.NoError(t, err)

		_, err = auther.Login(ctx, "a3@example.com", "p1")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		_, err = auther.Login(ctx, "a3@example.com", "p2")
		assert.NoError(t, err)
	})

	t.Run("keep leaves fields unchanged", func(t *testing.T) {
		user := register(t, "a4@example.com")

		updated, err := auther.UpdateSelf(ctx, user, auth.UpdateSelfInput{
			CurrentPassword: "p1",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice", updated.Name)

		_, err = auther.Login(ctx, "a4@example.com", "p1")
		assert.NoError(t, err)
	})

	t.Run("nil user is rejected", func(t *testing.T) {
		_, err := auther.UpdateSelf(ctx, nil, auth.UpdateSelfInput{
			CurrentPassword: "p1",
		})
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}

func TestRegisterDeterministicID(t *testing.T) {
	auther1, _ := newTestAuther(t)
	auther2, _ := newTestAuther(t)
	ctx := context.Background()

	input := auth.RegisterInput{
		Name:      "Alice",
		Email:     "alice@example.com",
		Password:  "p1",
		UseHashid: true,
	}

	u1, err := auther1.Register(ctx, input)
	require.NoError(t, err)

	u2, err := auther2.Register(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, u1.ID, u2.ID)
}
