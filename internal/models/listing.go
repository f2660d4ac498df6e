package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Transmission is the normalized gearbox type reported by Copart.
type Transmission string

const (
	TransmissionAutomatic Transmission = "Automatic"
	TransmissionManual    Transmission = "Manual"
)

// Damage type codes used by the Copart search filters.
const (
	DamageMinor = "DAMAGECODE_MN"
	DamageNone  = "DAMAGECODE_NO"
)

// CategoryU is the sale title type for undamaged/unrecorded lots.
const CategoryU = "U"

// Listing is one auction lot as returned by the Copart search.
type Listing struct {
	LotNumber    string       `json:"lot_number"`
	Make         string       `json:"make"`
	Model        string       `json:"model"`
	Year         int          `json:"year"`
	Mileage      int          `json:"mileage"`
	Transmission Transmission `json:"transmission"`
	DamageCode   string       `json:"damage_code"`
	HasV5        bool         `json:"has_v5"`
	Category     string       `json:"category"`
	Price        int          `json:"price,omitempty"`
	Currency     string       `json:"currency,omitempty"`
	AuctionDate  time.Time    `json:"auction_date,omitempty"`
	URL          string       `json:"url"`
	Source       string       `json:"source,omitempty"`
}

// Title renders the short human label used in tables and alerts,
// e.g. "2021 BMW 320I M SPORT".
func (l Listing) Title() string {
	parts := make([]string, 0, 3)
	if l.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", l.Year))
	}
	if l.Make != "" {
		parts = append(parts, l.Make)
	}
	if l.Model != "" {
		parts = append(parts, l.Model)
	}
	if len(parts) == 0 {
		return "Lot " + l.LotNumber
	}
	return strings.Join(parts, " ")
}

// PriceLabel renders the buy-now price when known, empty otherwise.
func (l Listing) PriceLabel() string {
	if l.Price <= 0 {
		return ""
	}
	currency := l.Currency
	if currency == "" {
		currency = "GBP"
	}
	return fmt.Sprintf("%s %s", currency, GroupThousands(l.Price))
}

// MileageLabel renders the odometer reading, e.g. "12,345 miles".
func (l Listing) MileageLabel() string {
	return GroupThousands(l.Mileage) + " miles"
}

// GroupThousands formats n with comma separators ("80000" -> "80,000").
func GroupThousands(n int) string {
	value := strconv.Itoa(n)
	sign := ""
	if strings.HasPrefix(value, "-") {
		sign = "-"
		value = value[1:]
	}
	if len(value) <= 3 {
		return sign + value
	}
	var b strings.Builder
	lead := len(value) % 3
	if lead > 0 {
		b.WriteString(value[:lead])
	}
	for i := lead; i < len(value); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(value[i : i+3])
	}
	return sign + b.String()
}

// ParseTransmission normalizes the transmission strings Copart uses
// across its payloads ("AUTO", "Automatic", "manual", ...).
func ParseTransmission(value string) Transmission {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "auto", "automatic":
		return TransmissionAutomatic
	case "manual":
		return TransmissionManual
	default:
		return Transmission(strings.TrimSpace(value))
	}
}
