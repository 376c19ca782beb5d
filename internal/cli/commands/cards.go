package commands

import (
	"CardWallet/internal/cli/bootstrap"
	"CardWallet/internal/cli/card"
	"CardWallet/internal/cli/model"
	view "CardWallet/internal/cli/model/view"
	"CardWallet/internal/cli/service"
	"CardWallet/internal/config"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// loadCards загружает список; при недоступном сервере печатает предупреждение и отдаёт кэш.
func loadCards(ctx context.Context, app *bootstrap.App) ([]model.Card, error) {
	cards, err := app.Cards.Load(ctx)
	if err != nil {
		if cards == nil {
			return nil, err
		}
		fmt.Fprintf(Out, "! %s; showing cached cards\n", Describe(err))
	}
	return cards, nil
}

// parseAssignments разбирает аргументы вида field=value.
func parseAssignments(args []string) ([][2]string, error) {
	out := make([][2]string, 0, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected field=value, got %q", a)
		}
		out = append(out, [2]string{k, v})
	}
	return out, nil
}

func applyAssignments(editing, original model.Card, args []string) (model.Card, error) {
	pairs, err := parseAssignments(args)
	if err != nil {
		return editing, err
	}
	for _, p := range pairs {
		editing, err = service.ApplyField(editing, original, p[0], p[1])
		if err != nil {
			return editing, err
		}
	}
	return editing, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUsage
	}
	return id, nil
}

func printCard(c model.Card) {
	for _, row := range view.CardDetails(c) {
		fmt.Fprintf(Out, "  %-12s %s\n", row.Label+":", row.Value)
	}
}

type cardsCmd struct{}

func (cardsCmd) Name() string        { return "cards" }
func (cardsCmd) Description() string { return "List cards grouped by category" }
func (cardsCmd) Usage() string {
	return "cards [--sort=name|company|none] [--search=<term>]"
}

func (cardsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cards", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sortFlag := fs.String("sort", "none", "sort order: name|company|none")
	search := fs.String("search", "", "search by name or company")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	by, err := service.ParseSortBy(*sortFlag)
	if err != nil {
		return ErrUsage
	}

	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	cards, err := loadCards(ctx, app)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(Out, "No cards yet")
		return nil
	}

	groups := service.GroupCards(service.SortCards(cards, by))
	cats := service.FilterCategories(groups, *search)
	if len(cats) == 0 {
		fmt.Fprintf(Out, "No cards match %q\n", *search)
		return nil
	}
	total := 0
	for _, cat := range cats {
		list := service.FilterCards(groups[cat], *search)
		fmt.Fprintf(Out, "%s (%d)\n", service.CategoryLabel(cat), len(list))
		for _, c := range list {
			fmt.Fprintf(Out, "  - %d  %s | %s\n", c.ID, c.Name, c.Company)
		}
		total += len(list)
	}
	fmt.Fprintf(Out, "Total: %d\n", total)
	return nil
}

type cardAddCmd struct{}

func (cardAddCmd) Name() string        { return "card-add" }
func (cardAddCmd) Description() string { return "Add a card" }
func (cardAddCmd) Usage() string {
	return "card-add type=<type> name=<name> company=<company> [field=value ...]"
}

func (cardAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	blank := model.Card{Type: model.TypeOther}
	c, err := applyAssignments(blank, blank, args)
	if err != nil {
		return err
	}

	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if _, err := loadCards(ctx, app); err != nil {
		return err
	}
	created, err := app.Cards.Add(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	printCard(created)
	if !app.Session.IsAuthenticated() {
		fmt.Fprintln(Out, "• Saved on this device; it will be added to your account after login")
	}
	return nil
}

type cardShowCmd struct{}

func (cardShowCmd) Name() string        { return "card-show" }
func (cardShowCmd) Description() string { return "Show one card" }
func (cardShowCmd) Usage() string       { return "card-show <id>" }

func (cardShowCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if _, err := loadCards(ctx, app); err != nil {
		return err
	}
	c, ok := app.Cards.Find(id)
	if !ok {
		return service.ErrCardNotFound
	}
	printCard(c)
	return nil
}

type cardEditCmd struct{}

func (cardEditCmd) Name() string        { return "card-edit" }
func (cardEditCmd) Description() string { return "Change card fields" }
func (cardEditCmd) Usage() string       { return "card-edit <id> field=value [field=value ...]" }

func (cardEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if _, err := loadCards(ctx, app); err != nil {
		return err
	}
	original, ok := app.Cards.Find(id)
	if !ok {
		return service.ErrCardNotFound
	}
	edited, err := applyAssignments(original, original, args[1:])
	if err != nil {
		return err
	}
	updated, err := app.Cards.Update(ctx, edited)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Updated:")
	printCard(updated)
	return nil
}

type cardDeleteCmd struct{}

func (cardDeleteCmd) Name() string        { return "card-delete" }
func (cardDeleteCmd) Description() string { return "Delete a card" }
func (cardDeleteCmd) Usage() string       { return "card-delete <id>" }

func (cardDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if _, err := loadCards(ctx, app); err != nil {
		return err
	}
	if err := app.Cards.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted card %d\n", id)
	return nil
}

type exportVCardCmd struct{}

func (exportVCardCmd) Name() string        { return "export-vcard" }
func (exportVCardCmd) Description() string { return "Export business cards to a .vcf file" }
func (exportVCardCmd) Usage() string       { return "export-vcard <file>" }

func (exportVCardCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	cards, err := loadCards(ctx, app)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	n, err := card.WriteVCards(f, cards)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Exported %d business card(s) to %s\n", n, args[0])
	return nil
}

func init() {
	RegisterCmd(cardsCmd{})
	RegisterCmd(cardAddCmd{})
	RegisterCmd(cardShowCmd{})
	RegisterCmd(cardEditCmd{})
	RegisterCmd(cardDeleteCmd{})
	RegisterCmd(exportVCardCmd{})
}
