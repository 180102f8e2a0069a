package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/soonhyok/accountd/internal/auth"
	"github.com/soonhyok/accountd/internal/config"
	"github.com/soonhyok/accountd/internal/database"
	"github.com/soonhyok/accountd/internal/database/accounts"
	"github.com/soonhyok/accountd/internal/database/audit"
	"github.com/soonhyok/accountd/internal/entities"
)

// CreateAccountCommand provisions an account from the command line. This is
// the administrative creation interface; the web app exposes no signup route.
type CreateAccountCommand struct {
	Username     string
	Password     string
	Role         string
	DatabasePath string
}

func NewCreateAccountCommand() *CreateAccountCommand {
	return &CreateAccountCommand{}
}

func (cmd *CreateAccountCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-account", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new account (required)")
	fs.StringVar(&cmd.Role, "role", string(entities.RoleUser), "Account role: USER or ADMIN")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the application database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-account -username <name> -password <secret> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Provision a new login account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-account -username soon -password secret -role USER\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s create-account -username admin -password secret -role ADMIN -db ./accountd.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided")
	}

	return nil
}

func (cmd *CreateAccountCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(accounts.NewRepository(db.DB), cfg.Auth)

	role := entities.AccountRole(strings.ToUpper(cmd.Role))
	account, err := service.CreateAccount(cmd.Username, cmd.Password, role)
	if err != nil {
		return err
	}

	// Provisioning is part of the audit trail like logins are. A failed
	// write must not roll back the account, so it only warns.
	auditRepo := audit.NewRepository(db.DB)
	if err := auditRepo.LogEvent(&entities.AuditEvent{
		AccountID: account.ID,
		EventType: entities.AuditEventAccountCreated,
		Username:  account.Username,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record audit event: %v\n", err)
	}

	fmt.Printf("Created account %q (id=%d, role=%s)\n", account.Username, account.ID, account.Role)
	return nil
}
