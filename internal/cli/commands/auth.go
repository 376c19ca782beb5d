package commands

import (
	"CardWallet/internal/cli/bootstrap"
	"CardWallet/internal/cli/service"
	"CardWallet/internal/config"
	"context"
	"flag"
	"fmt"
	"io"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account" }
func (registerCmd) Usage() string       { return "register <email> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	id, err := app.Session.Register(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Registered successfully (user id %d). Now run: login %s <password>\n", id, args[0])
	return nil
}

type loginCmd struct{}

func (loginCmd) Name() string { return "login" }
func (loginCmd) Description() string {
	return "Login, store the session and move local cards to the account"
}
func (loginCmd) Usage() string { return "login [--resolve=local|server] <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	resolve := fs.String("resolve", "", "conflict strategy: local|server")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return ErrUsage
	}
	strategy, err := parseStrategy(*resolve)
	if err != nil {
		return ErrUsage
	}

	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	creds, err := app.Session.Login(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in successfully as %s\n", creds.Email)

	cards, err := app.Cards.Load(ctx)
	if err != nil {
		// без серверного списка синхронизацию не запускаем
		fmt.Fprintf(Out, "! Could not load cards: %s\n", Describe(err))
		printPendingHint(app)
		return nil
	}
	fmt.Fprintf(Out, "You have %d card(s)\n", len(cards))

	ran, res, err := app.Reconciler.MaybeSync(ctx, cards)
	if err != nil {
		return err
	}
	if !ran {
		printPendingHint(app)
		return nil
	}
	return finishSync(ctx, app.Reconciler, res, strategy)
}

// printPendingHint напоминает о локальных карточках, которые автоматическая синхронизация не взяла.
func printPendingHint(app *bootstrap.App) {
	n, err := service.PendingLocalCards(app.Store)
	if err != nil {
		app.Logger.Warnw("count pending local cards", "error", err)
		return
	}
	if n > 0 {
		fmt.Fprintf(Out, "• %d local card(s) are not in your account yet; run: sync\n", n)
	}
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget the stored session" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := app.Session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show session state and local cards" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	fmt.Fprintf(Out, "Server: %s\n", cfg.ServerURL)
	if app.Session.IsAuthenticated() {
		creds := app.Session.Credentials()
		fmt.Fprintf(Out, "Status: logged in as %s (user id %d)\n", creds.Email, creds.UserID)
	} else {
		fmt.Fprintln(Out, "Status: not logged in, cards are stored on this device only")
	}
	n, err := service.PendingLocalCards(app.Store)
	if err != nil {
		return err
	}
	if n > 0 {
		fmt.Fprintf(Out, "Local cards waiting for sync: %d\n", n)
	}
	return nil
}

type deleteAccountCmd struct{}

func (deleteAccountCmd) Name() string { return "delete-account" }
func (deleteAccountCmd) Description() string {
	return "Delete the account and all its cards on the server"
}
func (deleteAccountCmd) Usage() string { return "delete-account --yes" }

func (deleteAccountCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("delete-account", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	yes := fs.Bool("yes", false, "confirm account deletion")
	if err := fs.Parse(args); err != nil || !*yes || fs.NArg() != 0 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := app.Session.DeleteAccount(ctx); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Account deleted")
	return nil
}

func init() {
	RegisterCmd(registerCmd{})
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(statusCmd{})
	RegisterCmd(deleteAccountCmd{})
}
