package auth

import "github.com/soonhyok/accountd/internal/entities"

// Principal is the identity attached to a request. Authenticated principals
// always carry a resolved account; everything else is anonymous.
type Principal struct {
	AccountID     uint
	Username      string
	Role          entities.AccountRole
	Authenticated bool
}

// Anonymous returns the principal used for requests without a session.
func Anonymous() Principal {
	return Principal{}
}

// NewPrincipal builds an authenticated principal from an account.
func NewPrincipal(account *entities.Account) Principal {
	return Principal{
		AccountID:     account.ID,
		Username:      account.Username,
		Role:          account.Role,
		Authenticated: true,
	}
}
