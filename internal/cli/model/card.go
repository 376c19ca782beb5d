package model

// CardType тип карточки в кошельке.
type CardType string

const (
	TypeBusiness       CardType = "business"
	TypeReward         CardType = "reward"
	TypeMembership     CardType = "membership"
	TypeCurrency       CardType = "currency"
	TypeIdentification CardType = "identification"
	TypeTransit        CardType = "transit"
	TypeTicket         CardType = "ticket"
	TypeOther          CardType = "other"
)

// CardTypes фиксированный список допустимых типов.
var CardTypes = []CardType{
	TypeBusiness, TypeReward, TypeMembership, TypeCurrency,
	TypeIdentification, TypeTransit, TypeTicket, TypeOther,
}

// Valid сообщает, входит ли тип в фиксированный список.
func (t CardType) Valid() bool {
	for _, v := range CardTypes {
		if t == v {
			return true
		}
	}
	return false
}

// CategoryMyCard псевдо-категория для собственных визиток пользователя.
const CategoryMyCard = "mycard"

// CategoryLabels подписи категорий при группировке.
var CategoryLabels = map[string]string{
	CategoryMyCard:             "My Business Card",
	string(TypeBusiness):       "Business Cards",
	string(TypeReward):         "Reward Cards",
	string(TypeMembership):     "Memberships",
	string(TypeIdentification): "ID Cards",
	string(TypeTicket):         "Tickets",
	string(TypeOther):          "Other Cards",
}

// DefaultColor цвет новой карточки по умолчанию.
const DefaultColor = "#0070d1"

// Card клиентское представление карточки. Так же она хранится в локальном хранилище.
type Card struct {
	ID       int64    `json:"id"`
	UserID   int64    `json:"userId"`
	Type     CardType `json:"type"`
	IsMyCard bool     `json:"isMyCard"`

	Name        string `json:"name"`
	Company     string `json:"company"`
	Position    string `json:"position,omitempty"`
	Department  string `json:"department,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Mobile      string `json:"mobile,omitempty"`
	Website     string `json:"website,omitempty"`
	Address     string `json:"address,omitempty"`
	LinkedinURL string `json:"linkedinUrl,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Color       string `json:"color"`
	Logo        string `json:"logo"`
	Photo       string `json:"photo,omitempty"`
	Verified    bool   `json:"verified"`

	Identifier  string `json:"identifier,omitempty"`
	Balance     string `json:"balance,omitempty"`
	Expiry      string `json:"expiry,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Seat        string `json:"seat,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	BarcodeType string `json:"barcodeType,omitempty"`
	BarcodeData string `json:"barcodeData,omitempty"`
	QRCodeData  string `json:"qrCodeData,omitempty"`
}

// Category ключ группы, в которую попадает карточка.
func (c Card) Category() string {
	if c.IsMyCard {
		return CategoryMyCard
	}
	return string(c.Type)
}
