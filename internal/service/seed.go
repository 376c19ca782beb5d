package service

import (
	"CardWallet/internal/model"
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	LegacyUserEmail    = "legacy-user@example.com"
	LegacyUserPassword = "password123"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

// sampleCards демонстрационные карточки для legacy-пользователя.
var sampleCards = []CardInput{
	{Name: strp("Alex Chen"), CompanyName: strp("TechSphere Inc."), Position: strp("Product Manager"),
		CardType: strp(model.CardTypeBusiness), CardColor: strp("#0070d1"), Logo: strp("placeholder"),
		Identifier: strp("TSI10293"), Email: strp("alex@techsphere.com"), Phone: strp("+1 (415) 555-1234"),
		Mobile: strp("+1 (415) 555-9876"), Website: strp("www.techsphere.com"),
		Address:     strp("123 Innovation Drive, San Francisco, CA 94105"),
		LinkedinURL: strp("linkedin.com/in/alexchen"), Verified: boolp(true), PhotoURL: strp("placeholder"),
		IsMyCard: boolp(true)},
	{Name: strp("Sarah Johnson"), CompanyName: strp("Design Forward"), Position: strp("Creative Director"),
		CardType: strp(model.CardTypeBusiness), CardColor: strp("#2c3e50"), Logo: strp("placeholder"),
		Identifier: strp("DF87542"), Email: strp("sarah.j@designforward.com"), Phone: strp("+1 (628) 555-7890"),
		Mobile: strp("+1 (628) 555-4321"), Website: strp("www.designforward.com"),
		Address:     strp("456 Creative Way, San Francisco, CA 94107"),
		LinkedinURL: strp("linkedin.com/in/sarahjohnsondesign"), Verified: boolp(true)},
	{Name: strp("Coffee Club"), CompanyName: strp("Seattle Coffee Co."), CardType: strp(model.CardTypeReward),
		CardColor: strp("#16a085"), Logo: strp("placeholder"), Identifier: strp("SCC-R78901"),
		Verified: boolp(true), Barcode: strp("978020137962"), BarcodeType: strp("code128")},
	{Name: strp("Book Lovers"), CompanyName: strp("City Books"), CardType: strp(model.CardTypeReward),
		CardColor: strp("#8e44ad"), Logo: strp("placeholder"), Identifier: strp("CB-24680"),
		Verified: boolp(true), Barcode: strp("9780201379625"), BarcodeType: strp("qr")},
	{Name: strp("Fitness Plus"), CompanyName: strp("FitLife Center"), CardType: strp(model.CardTypeMembership),
		CardColor: strp("#e60012"), Logo: strp("placeholder"), Identifier: strp("FL-13579"),
		Verified: boolp(true), Barcode: strp("9780201379628"), BarcodeType: strp("code128"),
		Website: strp("www.fitlifecenter.com"), ExpiryDate: strp("05/2026")},
	{Name: strp("Global Exchange"), CompanyName: strp("International Bank"), CardType: strp(model.CardTypeOther),
		CardColor: strp("#f39c12"), Logo: strp("placeholder"), Identifier: strp("IB-000789"),
		Verified: boolp(true), Balance: strp("$2,345.50")},
	{Name: strp("City Transit Card"), CompanyName: strp("Metro Transport"), CardType: strp(model.CardTypeOther),
		CardColor: strp("#0070d1"), Logo: strp("placeholder"), Identifier: strp("MT-56473"),
		Verified: boolp(true), Barcode: strp("9780201379629"), BarcodeType: strp("code128"),
		Balance: strp("$37.25"), ExpiryDate: strp("12/2025")},
	{Name: strp("Summer Music Festival"), CompanyName: strp("LiveSound Events"), CardType: strp(model.CardTypeTicket),
		CardColor: strp("#e60012"), Logo: strp("placeholder"), Identifier: strp("LSE-92847"),
		Verified: boolp(true), Barcode: strp("9780201379632"), BarcodeType: strp("qr"),
		EventDate: strp("June 18, 2025"), EventTime: strp("6:30 PM"),
		Seat: strp("Section A, Row 12, Seat 34"), Venue: strp("Oceanside Amphitheater")},
	{Name: strp("Robert Zhang"), CompanyName: strp("Quantum Computing"), Position: strp("Senior Engineer"),
		CardType: strp(model.CardTypeBusiness), CardColor: strp("#8e44ad"), Logo: strp("placeholder"),
		Identifier: strp("QC-10045"), Email: strp("robert@quantumcomputing.com"),
		Phone: strp("+1 (650) 555-3456"), Mobile: strp("+1 (650) 555-7890"),
		Website: strp("www.quantumcomputing.com"), Address: strp("789 Future Lane, Palo Alto, CA 94301"),
		LinkedinURL: strp("linkedin.com/in/robertzhang"), Verified: boolp(true)},
}

// Seed создаёт legacy-пользователя и, если у него ещё нет карточек, наполняет его демо-данными.
// Повторный запуск ничего не дублирует.
func Seed(ctx context.Context, users *UserService, cards *CardService, logger *zap.SugaredLogger) error {
	user, created, err := users.EnsureUser(ctx, LegacyUserEmail, LegacyUserPassword)
	if err != nil {
		return fmt.Errorf("ensure legacy user: %w", err)
	}
	if created {
		logger.Infow("legacy user created", "user_id", user.ID)
	}

	existing, err := cards.List(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list legacy cards: %w", err)
	}
	if len(existing) > 0 {
		logger.Infow("legacy user already has cards, skip seeding", "count", len(existing))
		return nil
	}

	for _, in := range sampleCards {
		c, err := cards.Create(ctx, user.ID, in)
		if err != nil {
			return fmt.Errorf("seed card %q: %w", *in.Name, err)
		}
		logger.Debugw("seeded card", "card_id", c.ID, "name", c.Name)
	}
	logger.Infow("seeding done", "user_id", user.ID, "cards", len(sampleCards))
	return nil
}
