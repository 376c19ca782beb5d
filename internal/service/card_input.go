package service

import "CardWallet/internal/model"

// CardInput входные данные для создания/обновления карточки.
// Поля — указатели: nil означает «не передано». JSON-теги совпадают с телом запроса API.
type CardInput struct {
	Name        *string `json:"name,omitempty"`
	IsMyCard    *bool   `json:"isMyCard,omitempty"`
	CardType    *string `json:"cardType,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
	Identifier  *string `json:"identifier,omitempty"`
	Position    *string `json:"position,omitempty"`
	Department  *string `json:"department,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Mobile      *string `json:"mobile,omitempty"`
	Website     *string `json:"website,omitempty"`
	Address     *string `json:"address,omitempty"`
	LinkedinURL *string `json:"linkedinUrl,omitempty"`
	CardColor   *string `json:"cardColor,omitempty"`
	Logo        *string `json:"logo,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Verified    *bool   `json:"verified,omitempty"`
	Barcode     *string `json:"barcode,omitempty"`
	BarcodeType *string `json:"barcodeType,omitempty"`
	Balance     *string `json:"balance,omitempty"`
	ExpiryDate  *string `json:"expiryDate,omitempty"`
	EventDate   *string `json:"eventDate,omitempty"`
	EventTime   *string `json:"eventTime,omitempty"`
	Seat        *string `json:"seat,omitempty"`
	Venue       *string `json:"venue,omitempty"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
}

type strField struct {
	column string
	val    *string
	dst    func(c *model.Card) *string
}

func (in CardInput) strFields() []strField {
	return []strField{
		{"name", in.Name, func(c *model.Card) *string { return &c.Name }},
		{"card_type", in.CardType, func(c *model.Card) *string { return &c.CardType }},
		{"company_name", in.CompanyName, func(c *model.Card) *string { return &c.CompanyName }},
		{"identifier", in.Identifier, func(c *model.Card) *string { return &c.Identifier }},
		{"position", in.Position, func(c *model.Card) *string { return &c.Position }},
		{"department", in.Department, func(c *model.Card) *string { return &c.Department }},
		{"email", in.Email, func(c *model.Card) *string { return &c.Email }},
		{"phone", in.Phone, func(c *model.Card) *string { return &c.Phone }},
		{"mobile", in.Mobile, func(c *model.Card) *string { return &c.Mobile }},
		{"website", in.Website, func(c *model.Card) *string { return &c.Website }},
		{"address", in.Address, func(c *model.Card) *string { return &c.Address }},
		{"linkedin_url", in.LinkedinURL, func(c *model.Card) *string { return &c.LinkedinURL }},
		{"card_color", in.CardColor, func(c *model.Card) *string { return &c.CardColor }},
		{"logo", in.Logo, func(c *model.Card) *string { return &c.Logo }},
		{"notes", in.Notes, func(c *model.Card) *string { return &c.Notes }},
		{"barcode", in.Barcode, func(c *model.Card) *string { return &c.Barcode }},
		{"barcode_type", in.BarcodeType, func(c *model.Card) *string { return &c.BarcodeType }},
		{"balance", in.Balance, func(c *model.Card) *string { return &c.Balance }},
		{"expiry_date", in.ExpiryDate, func(c *model.Card) *string { return &c.ExpiryDate }},
		{"event_date", in.EventDate, func(c *model.Card) *string { return &c.EventDate }},
		{"event_time", in.EventTime, func(c *model.Card) *string { return &c.EventTime }},
		{"seat", in.Seat, func(c *model.Card) *string { return &c.Seat }},
		{"venue", in.Venue, func(c *model.Card) *string { return &c.Venue }},
		{"photo_url", in.PhotoURL, func(c *model.Card) *string { return &c.PhotoURL }},
	}
}

// apply переносит переданные поля в модель.
func (in CardInput) apply(c *model.Card) {
	for _, f := range in.strFields() {
		if f.val != nil {
			*f.dst(c) = *f.val
		}
	}
	if in.IsMyCard != nil {
		c.IsMyCard = *in.IsMyCard
	}
	if in.Verified != nil {
		c.Verified = *in.Verified
	}
}

// updates собирает map колонка -> значение только по переданным полям.
func (in CardInput) updates() map[string]any {
	out := make(map[string]any)
	for _, f := range in.strFields() {
		if f.val != nil {
			out[f.column] = *f.val
		}
	}
	if in.IsMyCard != nil {
		out["is_my_card"] = *in.IsMyCard
	}
	if in.Verified != nil {
		out["verified"] = *in.Verified
	}
	return out
}
