package card

import (
	"CardWallet/internal/cli/model"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNotList ответ сервера не является JSON-массивом.
var ErrNotList = errors.New("server response is not a JSON array")

// ServerCard тело POST/PUT запросов в серверном именовании полей.
type ServerCard struct {
	Name        string `json:"name"`
	IsMyCard    bool   `json:"isMyCard"`
	CardType    string `json:"cardType"`
	CompanyName string `json:"companyName"`
	Identifier  string `json:"identifier"`
	Position    string `json:"position"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Mobile      string `json:"mobile"`
	Website     string `json:"website"`
	Address     string `json:"address"`
	LinkedinURL string `json:"linkedinUrl"`
	CardColor   string `json:"cardColor"`
	Logo        string `json:"logo"`
	Notes       string `json:"notes"`
	Verified    bool   `json:"verified"`
	Barcode     string `json:"barcode"`
	BarcodeType string `json:"barcodeType"`
	Balance     string `json:"balance"`
	ExpiryDate  string `json:"expiryDate"`
	EventDate   string `json:"eventDate"`
	EventTime   string `json:"eventTime"`
	Seat        string `json:"seat"`
	Venue       string `json:"venue"`
	PhotoURL    string `json:"photoUrl"`
}

// ToServer переводит клиентскую карточку в серверное именование.
func ToServer(c model.Card) ServerCard {
	return ServerCard{
		Name:        c.Name,
		IsMyCard:    c.IsMyCard,
		CardType:    string(c.Type),
		CompanyName: c.Company,
		Identifier:  c.Identifier,
		Position:    c.Position,
		Department:  c.Department,
		Email:       c.Email,
		Phone:       c.Phone,
		Mobile:      c.Mobile,
		Website:     c.Website,
		Address:     c.Address,
		LinkedinURL: c.LinkedinURL,
		CardColor:   c.Color,
		Logo:        c.Logo,
		Notes:       c.Notes,
		Verified:    c.Verified,
		Barcode:     c.Barcode,
		BarcodeType: c.BarcodeType,
		Balance:     c.Balance,
		ExpiryDate:  c.Expiry,
		EventDate:   c.Date,
		EventTime:   c.Time,
		Seat:        c.Seat,
		Venue:       c.Venue,
		PhotoURL:    c.Photo,
	}
}

// str возвращает первое непустое строковое значение из перечисленных путей.
func str(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := r.Get(p)
		if v.Exists() && v.Type != gjson.Null && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// FromServerJSON разбирает серверный объект карточки. Серверные имена (cardType, companyName,
// photoUrl, cardColor, expiryDate, eventDate, eventTime) имеют приоритет, клиентские служат запасным вариантом.
// Хвостовой "0" в имени (артефакт старых данных) отрезается; userId по умолчанию fallbackUserID.
func FromServerJSON(raw []byte, fallbackUserID int64) model.Card {
	r := gjson.ParseBytes(raw)

	c := model.Card{
		ID:          r.Get("id").Int(),
		UserID:      r.Get("userId").Int(),
		Type:        model.CardType(str(r, "cardType", "type")),
		IsMyCard:    r.Get("isMyCard").Bool(),
		Name:        strings.TrimSuffix(str(r, "name"), "0"),
		Company:     str(r, "companyName", "company"),
		Position:    str(r, "position"),
		Department:  str(r, "department"),
		Email:       str(r, "email"),
		Phone:       str(r, "phone"),
		Mobile:      str(r, "mobile"),
		Website:     str(r, "website"),
		Address:     str(r, "address"),
		LinkedinURL: str(r, "linkedinUrl"),
		Notes:       str(r, "notes"),
		Color:       str(r, "cardColor", "color"),
		Logo:        str(r, "logo"),
		Photo:       str(r, "photoUrl", "photo"),
		Verified:    r.Get("verified").Bool(),
		Identifier:  str(r, "identifier"),
		Balance:     str(r, "balance"),
		Expiry:      str(r, "expiryDate", "expiry"),
		Date:        str(r, "eventDate", "date"),
		Time:        str(r, "eventTime", "time"),
		Seat:        str(r, "seat"),
		Venue:       str(r, "venue"),
		Barcode:     str(r, "barcode"),
		BarcodeType: str(r, "barcodeType"),
		BarcodeData: str(r, "barcodeData"),
		QRCodeData:  str(r, "qrCodeData"),
	}
	if c.UserID == 0 {
		c.UserID = fallbackUserID
	}
	return Normalize(c)
}

// FromServerList разбирает массив серверных карточек.
func FromServerList(raw []byte, fallbackUserID int64) ([]model.Card, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrNotList
	}
	r := gjson.ParseBytes(raw)
	if !r.IsArray() {
		return nil, ErrNotList
	}
	out := make([]model.Card, 0, len(r.Array()))
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, FromServerJSON([]byte(v.Raw), fallbackUserID))
		return true
	})
	return out, nil
}
