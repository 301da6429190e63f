// Package authctl implements the administrative command line: schema
// migration, account creation and account removal against the server's
// account store.
package authctl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/sessions"
)

const Usage = `usage: authctl [flags] <command> [args]

commands:
  migrate                      apply database migrations
  useradd <username> <email>   create an account, password is read from the terminal
  userdel <username>           delete an account and its login records
  help                         show this message

flags are the server's (-c, -e, -d, -k, -b, -m, -l)`

var errUsage = errors.New("invalid usage")

type App struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	users  *services.UserService
	logger logging.Logger
	out    io.Writer
}

// NewApp connects to the database named by c.DatabaseDSN. authctl has no
// in-memory mode: an empty DSN is an error.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	if c.DatabaseDSN == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := server.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	app, err := newApp(db, repomanager.NewPostgresRepositoryManager(), c, out)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(db *sql.DB, rm repomanager.RepositoryManager, c *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.NewJSONLogger(io.Discard, c.LogLevel)
	if err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewPasswordHasher(c.PasswordHashAlgorithm, c.BcryptCost)
	if err != nil {
		return nil, err
	}

	// sessions are never issued from here
	reg := sessions.NewMemoryRegistry(c.AccessTokenValidityDuration)

	return &App{
		db:     db,
		rm:     rm,
		users:  services.NewUserService(db, rm, reg, hasher, c, logger),
		logger: logger,
		out:    out,
	}, nil
}

// Run executes one command. args are the positional arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, Usage)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "migrate":
		return a.migrate(ctx, rest)
	case "useradd":
		return a.userAdd(ctx, rest)
	case "userdel":
		return a.userDel(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, Usage)
		return nil
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s\n", cmd, Usage)
		return errUsage
	}
}

func (a *App) migrate(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: migrate takes no arguments", errUsage)
	}
	if err := a.rm.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}

func (a *App) userAdd(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: useradd <username> <email>", errUsage)
	}

	pw, err := GetNewPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	u, err := a.users.Signup(ctx, services.SignupRequest{Username: args[0], Email: args[1], Password: string(pw)})
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	fmt.Fprintf(a.out, "created user %s (%s)\n", u.UserName, u.ID)
	return nil
}

func (a *App) userDel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: userdel <username>", errUsage)
	}

	if err := a.users.DeleteUser(ctx, args[0]); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	fmt.Fprintf(a.out, "deleted user %s\n", args[0])
	return nil
}

// Close releases the database connection.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
