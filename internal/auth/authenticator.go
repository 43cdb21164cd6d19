package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterInput carries a signup request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// UseHashid derives the user id deterministically from the email
	// instead of generating a random one.
	UseHashid bool `json:"-"`
}

// UpdateSelfInput carries an authenticated self-update. CurrentPassword is
// always required: holding a valid bearer token is not proof enough to
// change credentials, so the caller re-proves identity with the plaintext
// password. Name and Password keep their current values unless set.
type UpdateSelfInput struct {
	CurrentPassword string
	Name            FieldUpdate[string]
	Password        FieldUpdate[string]
}

// Auther orchestrates signup, login, token-based identification, and
// authenticated self-updates.
type Auther struct {
	repo            RepositoryManager
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		repo:            repo,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		issuer:          opts.GetIssuer(),
		audience:        opts.GetAudience(),
		logger:          defLogger{},
		tokenService:    tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Update the TokenService logger as well
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Register creates a new account. The plaintext password is hashed before
// anything touches the store and never persisted or returned. A duplicate
// email surfaces as ErrEmailTaken.
func (s *Auther) Register(ctx context.Context, input RegisterInput) (*User, error) {
	user := &User{}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Users().GetByEmailTx(ctx, tx, input.Email); err == nil {
			return ErrEmailTaken
		} else if !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing email")
		}

		hash, err := HashPassword(input.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Name = input.Name
		user.Email = input.Email
		user.PasswordHash = hash
		if input.UseHashid {
			if id, err := hashid.NewUUID(input.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = s.repo.Users().CreateTx(ctx, tx, user); err != nil {
			// A concurrent signup can still trip the unique constraint
			// between our check and the insert.
			return goerrors.Wrap(err, ErrEmailTaken.Category, ErrEmailTaken.Message).
				WithCode(ErrEmailTaken.Code).
				WithTextCode(ErrEmailTaken.TextCode)
		}

		return nil
	})

	if err != nil {
		s.logger.Error("Register error", "email", input.Email, "error", err)
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}

// Login verifies the credentials and issues a signed token bound to the
// user id. Unknown email and wrong password fail identically.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return "", ErrInvalidCredentials
		}
		s.logger.Error("Login user lookup error", "error", err)
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during login")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(user)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", err
	}

	return token, nil
}

// Authenticate resolves a bearer token to the live stored user record, so
// downstream authorization always reflects current state except for expiry.
// Every failure mode collapses into ErrUnauthenticated.
func (s *Auther) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokenService.Validate(token)
	if err != nil {
		s.logger.Debug("Authenticate token validation failed", "error", err)
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.Users().GetByID(ctx, claims.UserID())
	if err != nil {
		// The subject may have been removed since issuance; report it the
		// same way as a bad token.
		s.logger.Debug("Authenticate subject lookup failed", "subject", claims.UserID(), "error", err)
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// UpdateSelf applies a partial profile update after re-verifying the
// caller's current password. A failed reauthentication leaves stored state
// untouched.
func (s *Auther) UpdateSelf(ctx context.Context, current *User, input UpdateSelfInput) (*User, error) {
	if current == nil {
		return nil, ErrUnauthenticated
	}

	if err := ComparePasswordAndHash(input.CurrentPassword, current.PasswordHash); err != nil {
		return nil, ErrUnauthenticated
	}

	record := &User{ID: current.ID}
	dirty := false

	if name, ok := input.Name.Value(); ok && name != current.Name {
		record.Name = name
		dirty = true
	}

	if password, ok := input.Password.Value(); ok {
		hash, err := HashPassword(password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return nil, richErr
			}
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}
		record.PasswordHash = hash
		dirty = true
	}

	if !dirty {
		return current, nil
	}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Users().UpdateTx(ctx, tx, record, repository.UpdateByID(current.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user")
		}
		return nil
	})

	if err != nil {
		s.logger.Error("UpdateSelf error", "user_id", current.ID.String(), "error", err)
		return nil, err
	}

	return s.repo.Users().GetByID(ctx, current.ID.String())
}
