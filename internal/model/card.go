package model

import "time"

// DefaultCardColor цвет карточки, если клиент его не передал.
const DefaultCardColor = "#0070d1"

// Допустимые значения cardType.
const (
	CardTypeBusiness       = "business"
	CardTypeReward         = "reward"
	CardTypeMembership     = "membership"
	CardTypeCurrency       = "currency"
	CardTypeIdentification = "identification"
	CardTypeTransit        = "transit"
	CardTypeTicket         = "ticket"
	CardTypeOther          = "other"
)

var cardTypes = map[string]struct{}{
	CardTypeBusiness:       {},
	CardTypeReward:         {},
	CardTypeMembership:     {},
	CardTypeCurrency:       {},
	CardTypeIdentification: {},
	CardTypeTransit:        {},
	CardTypeTicket:         {},
	CardTypeOther:          {},
}

// IsValidCardType проверяет, что тип входит в фиксированный список.
func IsValidCardType(t string) bool {
	_, ok := cardTypes[t]
	return ok
}

// Card — серверная модель карточки кошелька.
// JSON-теги совпадают с серверным именованием полей (cardType, companyName, photoUrl ...).
type Card struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"userId"` // ссылка на users.id

	// Связи
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Name        string `gorm:"not null" json:"name"`
	IsMyCard    bool   `gorm:"not null;default:false" json:"isMyCard"`
	CardType    string `gorm:"not null" json:"cardType"`
	CompanyName string `json:"companyName"`
	Identifier  string `json:"identifier"`
	Position    string `json:"position"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Mobile      string `json:"mobile"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	LinkedinURL string `gorm:"column:linkedin_url" json:"linkedinUrl"`
	CardColor   string `gorm:"not null;default:'#0070d1'" json:"cardColor"`
	Logo        string `json:"logo"`
	Notes       string `json:"notes"`
	Verified    bool   `gorm:"not null;default:false" json:"verified"`
	Barcode     string `json:"barcode"`
	BarcodeType string `json:"barcodeType"`
	Balance     string `json:"balance"`
	ExpiryDate  string `json:"expiryDate"`
	EventDate   string `json:"eventDate"`
	EventTime   string `json:"eventTime"`
	Seat        string `json:"seat"`
	Venue       string `json:"venue"`
	PhotoURL    string `gorm:"column:photo_url" json:"photoUrl"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"lastModified"`
}
