package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soonhyok/accountd/internal/database"
	"github.com/soonhyok/accountd/internal/database/accounts"
	"github.com/soonhyok/accountd/internal/database/audit"
	"github.com/soonhyok/accountd/internal/entities"
)

func TestCreateAccountCommand_Run(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli_test.db")

	cmd := &CreateAccountCommand{
		Username:     "soon",
		Password:     "123",
		Role:         "user",
		DatabasePath: dbPath,
	}
	require.NoError(t, cmd.Run())

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	account, err := accounts.NewRepository(db.DB).GetByUsername("soon")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleUser, account.Role)
	assert.NotEmpty(t, account.PasswordDigest)
	assert.NotEqual(t, "123", account.PasswordDigest)

	// Provisioning leaves an account_created entry in the audit trail
	events, total, err := audit.NewRepository(db.DB).GetEvents(account.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, entities.AuditEventAccountCreated, events[0].EventType)
	assert.Equal(t, "soon", events[0].Username)
}

func TestCreateAccountCommand_ParseFlags(t *testing.T) {
	cmd := NewCreateAccountCommand()
	err := cmd.ParseFlags([]string{"-username", "soon", "-password", "123", "-role", "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, "soon", cmd.Username)
	assert.Equal(t, "ADMIN", cmd.Role)

	missing := NewCreateAccountCommand()
	assert.Error(t, missing.ParseFlags([]string{"-username", "soon"}))
}
