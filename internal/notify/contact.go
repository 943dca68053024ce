package notify

import (
	"net/url"
	"strings"
)

// DefaultCountryCode is prefixed to local numbers written with a leading 0.
const DefaultCountryCode = "254"

// NormalizePhone keeps the digits of phone in international form, or ""
// when nothing dialable is left.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "00"):
		digits = digits[2:]
	case strings.HasPrefix(digits, "0"):
		digits = DefaultCountryCode + digits[1:]
	}

	if len(digits) < 7 {
		return ""
	}
	return digits
}

// WhatsAppLink returns a wa.me link that opens a chat with phone, with
// message prefilled when set.
func WhatsAppLink(phone, message string) string {
	digits := NormalizePhone(phone)
	if digits == "" {
		return ""
	}
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

func TelLink(phone string) string {
	digits := NormalizePhone(phone)
	if digits == "" {
		return ""
	}
	return "tel:+" + digits
}

type ContactLinks struct {
	WhatsApp string `json:"whatsapp,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

func LinksFor(phone, shopName string) ContactLinks {
	msg := ""
	if shopName != "" {
		msg = "Hi " + shopName + ", I found you on BarberBook."
	}
	return ContactLinks{
		WhatsApp: WhatsAppLink(phone, msg),
		Phone:    TelLink(phone),
	}
}
