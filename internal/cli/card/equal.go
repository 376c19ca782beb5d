package card

import (
	"CardWallet/internal/cli/model"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type semanticField struct {
	name string
	get  func(c model.Card) string
}

func boolStr(b bool) string { return strconv.FormatBool(b) }

// semanticFields поля, участвующие в сравнении. id, userId, photo, logo, штрихкоды и
// производные данные сюда не входят.
var semanticFields = []semanticField{
	{"name", func(c model.Card) string { return c.Name }},
	{"company", func(c model.Card) string { return c.Company }},
	{"position", func(c model.Card) string { return c.Position }},
	{"email", func(c model.Card) string { return c.Email }},
	{"phone", func(c model.Card) string { return c.Phone }},
	{"mobile", func(c model.Card) string { return c.Mobile }},
	{"address", func(c model.Card) string { return c.Address }},
	{"website", func(c model.Card) string { return c.Website }},
	{"notes", func(c model.Card) string { return c.Notes }},
	{"type", func(c model.Card) string { return string(c.Type) }},
	{"isMyCard", func(c model.Card) string { return boolStr(c.IsMyCard) }},
	{"color", func(c model.Card) string { return c.Color }},
	{"linkedinUrl", func(c model.Card) string { return c.LinkedinURL }},
	{"verified", func(c model.Card) string { return boolStr(c.Verified) }},
	{"identifier", func(c model.Card) string { return c.Identifier }},
	{"balance", func(c model.Card) string { return c.Balance }},
	{"expiry", func(c model.Card) string { return c.Expiry }},
	{"date", func(c model.Card) string { return c.Date }},
	{"time", func(c model.Card) string { return c.Time }},
	{"seat", func(c model.Card) string { return c.Seat }},
	{"venue", func(c model.Card) string { return c.Venue }},
	{"department", func(c model.Card) string { return c.Department }},
}

// FieldDiff расхождение одного поля между локальной и серверной версией.
type FieldDiff struct {
	Field  string
	Local  string
	Server string
}

// SemanticallyIdentical сравнивает карточки по смысловым полям; строки сравниваются после TrimSpace.
func SemanticallyIdentical(a, b model.Card) bool {
	for _, f := range semanticFields {
		if strings.TrimSpace(f.get(a)) != strings.TrimSpace(f.get(b)) {
			return false
		}
	}
	return true
}

// Diff возвращает различающиеся смысловые поля в порядке сравнения.
func Diff(local, server model.Card) []FieldDiff {
	var out []FieldDiff
	for _, f := range semanticFields {
		l, s := strings.TrimSpace(f.get(local)), strings.TrimSpace(f.get(server))
		if l != s {
			out = append(out, FieldDiff{Field: f.name, Local: l, Server: s})
		}
	}
	return out
}

func keyPart(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// MatchKey ключ сопоставления локальной и серверной карточки: имя и компания без регистра.
// Если имя или компания пусты, ключа нет и карточка ни с чем не сопоставляется.
func MatchKey(c model.Card) (string, bool) {
	name, company := keyPart(c.Name), keyPart(c.Company)
	if name == "" || company == "" {
		return "", false
	}
	return name + "\x00" + company, true
}
