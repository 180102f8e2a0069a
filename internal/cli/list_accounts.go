package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/soonhyok/accountd/internal/config"
	"github.com/soonhyok/accountd/internal/database"
	"github.com/soonhyok/accountd/internal/database/accounts"
)

// ListAccountsCommand prints all provisioned accounts.
type ListAccountsCommand struct {
	DatabasePath string
}

func NewListAccountsCommand() *ListAccountsCommand {
	return &ListAccountsCommand{}
}

func (cmd *ListAccountsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list-accounts", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the application database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list-accounts [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List provisioned accounts.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ListAccountsCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := accounts.NewRepository(db.DB)
	all, err := repo.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tCREATED")
	for _, a := range all {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Username, a.Role, a.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
