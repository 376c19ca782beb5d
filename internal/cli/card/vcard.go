package card

import (
	"CardWallet/internal/cli/model"
	"fmt"
	"io"
	"strconv"

	"github.com/emersion/go-vcard"
)

// WriteVCards пишет визитки (type == business) в формате vCard 4.0 и возвращает их количество.
func WriteVCards(w io.Writer, cards []model.Card) (int, error) {
	enc := vcard.NewEncoder(w)
	n := 0
	for _, c := range cards {
		if c.Type != model.TypeBusiness {
			continue
		}
		if err := enc.Encode(toVCard(c)); err != nil {
			return n, fmt.Errorf("encode vcard %q: %w", c.Name, err)
		}
		n++
	}
	return n, nil
}

func toVCard(c model.Card) vcard.Card {
	vc := make(vcard.Card)

	fn := c.Name
	if fn == "" {
		fn = c.Company
	}
	vc.SetValue(vcard.FieldFormattedName, fn)
	vc.SetName(&vcard.Name{GivenName: c.Name})
	if c.ID != 0 {
		vc.SetValue(vcard.FieldUID, "cardwallet-"+strconv.FormatInt(c.ID, 10))
	}
	if c.Company != "" {
		org := c.Company
		if c.Department != "" {
			org += ";" + c.Department
		}
		vc.SetValue(vcard.FieldOrganization, org)
	}
	if c.Position != "" {
		vc.SetValue(vcard.FieldTitle, c.Position)
	}
	if c.Email != "" {
		vc.Add(vcard.FieldEmail, &vcard.Field{
			Value:  c.Email,
			Params: vcard.Params{vcard.ParamType: {vcard.TypeWork}},
		})
	}
	if c.Phone != "" {
		vc.Add(vcard.FieldTelephone, &vcard.Field{
			Value:  c.Phone,
			Params: vcard.Params{vcard.ParamType: {vcard.TypeWork, vcard.TypeVoice}},
		})
	}
	if c.Mobile != "" {
		vc.Add(vcard.FieldTelephone, &vcard.Field{
			Value:  c.Mobile,
			Params: vcard.Params{vcard.ParamType: {vcard.TypeCell}},
		})
	}
	if c.Website != "" {
		vc.AddValue(vcard.FieldURL, c.Website)
	}
	if c.LinkedinURL != "" {
		vc.AddValue(vcard.FieldURL, c.LinkedinURL)
	}
	if c.Address != "" {
		vc.AddAddress(&vcard.Address{
			Field:         &vcard.Field{Params: vcard.Params{vcard.ParamType: {vcard.TypeWork}}},
			StreetAddress: c.Address,
		})
	}
	if c.Notes != "" {
		vc.SetValue(vcard.FieldNote, c.Notes)
	}

	vcard.ToV4(vc)
	return vc
}
