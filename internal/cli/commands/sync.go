package commands

import (
	"CardWallet/internal/cli/card"
	"CardWallet/internal/cli/model"
	"CardWallet/internal/cli/service"
	"CardWallet/internal/config"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// errReviewAborted ввод закончился до разбора всех конфликтов.
var errReviewAborted = errors.New("conflict review aborted, local cards are kept for the next sync")

type syncCmd struct{}

func (syncCmd) Name() string { return "sync" }
func (syncCmd) Description() string {
	return "Move cards created before login to the account"
}
func (syncCmd) Usage() string { return "sync [--resolve=local|server]" }

func (syncCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	resolve := fs.String("resolve", "", "conflict strategy: local|server")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
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

	fmt.Fprintln(Out, "→ Syncing local cards…")
	res, err := app.Reconciler.SyncLocalCards(ctx)
	if err != nil {
		return err
	}
	return finishSync(ctx, app.Reconciler, res, strategy)
}

// parseStrategy пустая строка означает интерактивный выбор.
func parseStrategy(s string) (service.Choice, error) {
	if s == "" {
		return "", nil
	}
	return service.ParseChoice(s)
}

// finishSync разбирает конфликты (если есть) и печатает итог синхронизации.
func finishSync(ctx context.Context, r *service.Reconciler, res service.SyncResult, strategy service.Choice) error {
	if res.Dropped > 0 {
		fmt.Fprintf(Out, "• %d local card(s) already in your account\n", res.Dropped)
	}
	if r.State().Phase == service.PhaseReviewing {
		fmt.Fprintf(Out, "! %d local card(s) differ from cards in your account\n", res.Conflicts)
		if err := reviewConflicts(ctx, r, strategy); err != nil {
			return err
		}
	}
	reportOutcome(r)
	return nil
}

// reviewConflicts проводит пользователя по очереди конфликтов.
func reviewConflicts(ctx context.Context, r *service.Reconciler, strategy service.Choice) error {
	reader := bufio.NewReader(In)
	for {
		pair, idx, total, ok := r.Current()
		if !ok {
			return nil
		}
		fmt.Fprintf(Out, "\nConflict %d of %d: %s (%s)\n", idx+1, total, pair.Local.Name, pair.Local.Company)
		printConflict(Out, pair)

		choice := strategy
		if choice == "" {
			c, skip, err := askChoice(reader)
			if err != nil {
				return err
			}
			if skip {
				if err := r.Skip(); err != nil {
					return err
				}
			}
			choice = c
		}
		if choice != "" {
			if err := r.Resolve(choice); err != nil {
				return err
			}
		}

		finalized, res, err := r.Advance(ctx)
		if err != nil {
			return err
		}
		if finalized {
			if res.Uploaded+res.Failed > 0 {
				fmt.Fprintf(Out, "→ Uploaded %d card(s), %d failed\n", res.Uploaded, res.Failed)
			}
			return nil
		}
	}
}

// askChoice читает ответ: l (local), s (server) или k (skip).
func askChoice(reader *bufio.Reader) (service.Choice, bool, error) {
	for {
		fmt.Fprint(Out, "Keep [l]ocal, [s]erver or s[k]ip? ")
		line, err := reader.ReadString('\n')
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "l", "local":
			return service.ChoiceLocal, false, nil
		case "s", "server":
			return service.ChoiceServer, false, nil
		case "k", "skip":
			return "", true, nil
		}
		if err != nil {
			return "", false, errReviewAborted
		}
	}
}

// printConflict печатает различающиеся поля; для строк показывается посимвольный diff
// от серверной версии к локальной: [-удалено-]{+добавлено+}.
func printConflict(w io.Writer, pair model.ConflictPair) {
	dmp := diffmatchpatch.New()
	for _, d := range card.Diff(pair.Local, pair.Server) {
		fmt.Fprintf(w, "  %-12s server: %q\n", d.Field, d.Server)
		fmt.Fprintf(w, "  %-12s local:  %q\n", "", d.Local)
		if d.Local == "" || d.Server == "" {
			continue
		}
		diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(d.Server, d.Local, false))
		fmt.Fprintf(w, "  %-12s diff:   %s\n", "", renderDiff(diffs))
	}
}

func renderDiff(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// reportOutcome показывает итог один раз и сбрасывает его.
func reportOutcome(r *service.Reconciler) {
	switch r.Outcome() {
	case model.SyncSuccess:
		fmt.Fprintln(Out, "✓ Local cards were added to your account")
	case model.SyncPartialFailure:
		fmt.Fprintln(Out, "! Some local cards could not be uploaded; they are kept and will be retried on the next login")
	default:
		return
	}
	r.ClearOutcome()
}

func init() { RegisterCmd(syncCmd{}) }
