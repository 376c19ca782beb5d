package service

import (
	"CardWallet/internal/cli/model"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortBy порядок вывода карточек.
type SortBy string

const (
	SortNone    SortBy = "none"
	SortName    SortBy = "name"
	SortCompany SortBy = "company"
)

// ParseSortBy разбирает значение флага --sort.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNone:
		return SortNone, nil
	case SortName:
		return SortName, nil
	case SortCompany:
		return SortCompany, nil
	}
	return "", fmt.Errorf("unknown sort option %q (want name|company|none)", s)
}

// SortCards возвращает отсортированную копию; сравнение с учётом языка, без учёта регистра.
func SortCards(cards []model.Card, by SortBy) []model.Card {
	out := append([]model.Card(nil), cards...)
	var key func(model.Card) string
	switch by {
	case SortName:
		key = func(c model.Card) string { return c.Name }
	case SortCompany:
		key = func(c model.Card) string { return c.Company }
	default:
		return out
	}
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(key(out[i]), key(out[j])) < 0
	})
	return out
}

// GroupCards раскладывает карточки по категориям, порядок внутри категории сохраняется.
func GroupCards(cards []model.Card) map[string][]model.Card {
	groups := make(map[string][]model.Card)
	for _, c := range cards {
		cat := c.Category()
		groups[cat] = append(groups[cat], c)
	}
	return groups
}

// CategoryLabel подпись категории; для категорий без подписи возвращается сам ключ.
func CategoryLabel(category string) string {
	if l, ok := model.CategoryLabels[category]; ok {
		return l
	}
	return category
}

// OrderCategories: сначала "mycard", остальные по подписи.
func OrderCategories(groups map[string][]model.Card) []string {
	cats := make([]string, 0, len(groups))
	for k := range groups {
		cats = append(cats, k)
	}
	col := collate.New(language.English, collate.IgnoreCase)
	sort.Slice(cats, func(i, j int) bool {
		a, b := cats[i], cats[j]
		if a == model.CategoryMyCard || b == model.CategoryMyCard {
			return a == model.CategoryMyCard && b != model.CategoryMyCard
		}
		return col.CompareString(CategoryLabel(a), CategoryLabel(b)) < 0
	})
	return cats
}

// matches поиск по подстроке в имени или компании без учёта регистра.
func matches(c model.Card, termLC string) bool {
	return strings.Contains(strings.ToLower(c.Name), termLC) ||
		strings.Contains(strings.ToLower(c.Company), termLC)
}

// FilterCategories упорядоченные категории, в которых есть хотя бы одна подходящая карточка.
func FilterCategories(groups map[string][]model.Card, term string) []string {
	ordered := OrderCategories(groups)
	if term == "" {
		return ordered
	}
	termLC := strings.ToLower(term)
	out := ordered[:0]
	for _, cat := range ordered {
		for _, c := range groups[cat] {
			if matches(c, termLC) {
				out = append(out, cat)
				break
			}
		}
	}
	return out
}

// FilterCards карточки, подходящие под поиск.
func FilterCards(cards []model.Card, term string) []model.Card {
	if term == "" {
		return cards
	}
	termLC := strings.ToLower(term)
	var out []model.Card
	for _, c := range cards {
		if matches(c, termLC) {
			out = append(out, c)
		}
	}
	return out
}

// Sorted текущий список в заданном порядке.
func (s *CardService) Sorted(by SortBy) []model.Card {
	return SortCards(s.Cards(), by)
}

// Grouped текущий список, отсортированный и разложенный по категориям.
func (s *CardService) Grouped(by SortBy) map[string][]model.Card {
	return GroupCards(s.Sorted(by))
}
