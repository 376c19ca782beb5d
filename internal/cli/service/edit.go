package service

import (
	"CardWallet/internal/cli/model"
	"fmt"
	"sort"
	"strconv"
)

var stringSetters = map[string]func(c *model.Card, v string){
	"name":        func(c *model.Card, v string) { c.Name = v },
	"company":     func(c *model.Card, v string) { c.Company = v },
	"position":    func(c *model.Card, v string) { c.Position = v },
	"department":  func(c *model.Card, v string) { c.Department = v },
	"email":       func(c *model.Card, v string) { c.Email = v },
	"phone":       func(c *model.Card, v string) { c.Phone = v },
	"mobile":      func(c *model.Card, v string) { c.Mobile = v },
	"website":     func(c *model.Card, v string) { c.Website = v },
	"address":     func(c *model.Card, v string) { c.Address = v },
	"linkedinUrl": func(c *model.Card, v string) { c.LinkedinURL = v },
	"notes":       func(c *model.Card, v string) { c.Notes = v },
	"color":       func(c *model.Card, v string) { c.Color = v },
	"logo":        func(c *model.Card, v string) { c.Logo = v },
	"photo":       func(c *model.Card, v string) { c.Photo = v },
	"identifier":  func(c *model.Card, v string) { c.Identifier = v },
	"balance":     func(c *model.Card, v string) { c.Balance = v },
	"expiry":      func(c *model.Card, v string) { c.Expiry = v },
	"date":        func(c *model.Card, v string) { c.Date = v },
	"time":        func(c *model.Card, v string) { c.Time = v },
	"seat":        func(c *model.Card, v string) { c.Seat = v },
	"venue":       func(c *model.Card, v string) { c.Venue = v },
	"barcode":     func(c *model.Card, v string) { c.Barcode = v },
	"barcodeType": func(c *model.Card, v string) { c.BarcodeType = v },
}

// EditableFields имена полей, принимаемых ApplyField.
func EditableFields() []string {
	out := []string{"type", "isMyCard", "verified"}
	for k := range stringSetters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ApplyField меняет одно поле редактируемой карточки с учётом связи isMyCard и type:
// isMyCard=true делает карточку визиткой, isMyCard=false возвращает исходный тип,
// тип, отличный от business, снимает isMyCard.
func ApplyField(editing, original model.Card, field, value string) (model.Card, error) {
	switch field {
	case "isMyCard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return editing, fmt.Errorf("isMyCard: %w", err)
		}
		editing.IsMyCard = b
		if b {
			editing.Type = model.TypeBusiness
		} else {
			editing.Type = original.Type
		}
		return editing, nil
	case "verified":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return editing, fmt.Errorf("verified: %w", err)
		}
		editing.Verified = b
		return editing, nil
	case "type":
		t := model.CardType(value)
		if !t.Valid() {
			return editing, fmt.Errorf("unknown card type %q", value)
		}
		editing.Type = t
		if t != model.TypeBusiness {
			editing.IsMyCard = false
		}
		return editing, nil
	}
	set, ok := stringSetters[field]
	if !ok {
		return editing, fmt.Errorf("unknown field %q", field)
	}
	set(&editing, value)
	return editing, nil
}
