package auth

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/soonhyok/accountd/internal/config"
	"github.com/soonhyok/accountd/internal/database/accounts"
	"github.com/soonhyok/accountd/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords. The two are deliberately indistinguishable so login
	// failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameInvalid  = errors.New("username must be 1-64 characters, alphanumeric and underscore/hyphen only")
	ErrInvalidRole      = errors.New("invalid role")
	ErrAccountNotFound  = accounts.ErrAccountNotFound
	ErrUsernameTaken    = accounts.ErrDuplicateUsername
)

// Store is the account persistence interface the service depends on.
type Store interface {
	Create(account *entities.Account) (*entities.Account, error)
	GetByUsername(username string) (*entities.Account, error)
	GetByID(id uint) (*entities.Account, error)
}

// Service provisions accounts and authenticates login attempts.
type Service struct {
	store  Store
	config config.Auth

	// dummyDigest is compared against when a login names an unknown user,
	// so that path costs a bcrypt verification just like the known-user
	// path.
	dummyDigest string
}

// NewService creates a new authentication service.
func NewService(store Store, cfg config.Auth) *Service {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := HashPassword("accountd-dummy-password", cost)
	return &Service{
		store:       store,
		config:      cfg,
		dummyDigest: dummy,
	}
}

// CreateAccount provisions a new account. The plaintext password is hashed
// and discarded; only the digest is persisted. Duplicate usernames propagate
// as ErrUsernameTaken. On success exactly one account row exists; on failure
// none.
func (s *Service) CreateAccount(username, password string, role entities.AccountRole) (*entities.Account, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	digest, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	account := &entities.Account{
		Username:       username,
		PasswordDigest: digest,
		Role:           role,
	}

	created, err := s.store.Create(account)
	if err != nil {
		if errors.Is(err, accounts.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return created, nil
}

// Login verifies the credentials and returns an authenticated principal.
// Unknown user and wrong password both yield ErrInvalidCredentials. Store
// failures are returned as distinct wrapped errors so callers can fail
// closed without reporting "invalid credentials" for an outage.
func (s *Service) Login(username, password string) (*Principal, error) {
	account, err := s.store.GetByUsername(username)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			// Burn a verification so the unknown-user path is not
			// cheaper than the wrong-password path.
			_ = CheckPassword(password, s.dummyDigest)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := CheckPassword(password, account.PasswordDigest); err != nil {
		return nil, ErrInvalidCredentials
	}

	principal := NewPrincipal(account)
	return &principal, nil
}

// GetAccountByID retrieves an account by its ID.
func (s *Service) GetAccountByID(id uint) (*entities.Account, error) {
	return s.store.GetByID(id)
}
