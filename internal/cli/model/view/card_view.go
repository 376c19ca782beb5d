package view

import (
	"CardWallet/internal/cli/model"
	"strconv"
)

// Row строка карточки для вывода в CLI.
type Row struct {
	Label string
	Value string
}

// CardDetails возвращает непустые поля карточки в порядке отображения.
// Для визиток выводятся контакты, для остальных типов штрихкод, баланс и реквизиты события.
func CardDetails(c model.Card) []Row {
	rows := []Row{
		{"ID", strconv.FormatInt(c.ID, 10)},
		{"Name", c.Name},
		{"Company", c.Company},
		{"Type", string(c.Type)},
	}
	if c.IsMyCard {
		rows = append(rows, Row{"My card", "yes"})
	}

	var extra []Row
	if c.Type == model.TypeBusiness {
		extra = []Row{
			{"Position", c.Position},
			{"Department", c.Department},
			{"Email", c.Email},
			{"Phone", c.Phone},
			{"Mobile", c.Mobile},
			{"Website", c.Website},
			{"Address", c.Address},
			{"LinkedIn", c.LinkedinURL},
		}
	} else {
		extra = []Row{
			{"Identifier", c.Identifier},
			{"Barcode", c.Barcode},
			{"Barcode type", c.BarcodeType},
			{"Balance", c.Balance},
			{"Expiry", c.Expiry},
			{"Date", c.Date},
			{"Time", c.Time},
			{"Seat", c.Seat},
			{"Venue", c.Venue},
			{"Website", c.Website},
		}
	}
	extra = append(extra, Row{"Color", c.Color}, Row{"Notes", c.Notes})
	if c.Verified {
		extra = append(extra, Row{"Verified", "yes"})
	}

	for _, r := range extra {
		if r.Value != "" {
			rows = append(rows, r)
		}
	}
	return rows
}
