package copart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"copartwatch/internal/models"
)

var ErrUnexpectedPayload = errors.New("unexpected search payload")

// searchEnvelope tolerates the two payload shapes the vehicle finder has
// shipped: the current data.results wrapper and the older bare lots array.
type searchEnvelope struct {
	Data *struct {
		Results struct {
			TotalElements int         `json:"totalElements"`
			Content       []lotRecord `json:"content"`
		} `json:"results"`
	} `json:"data"`
	Lots []lotRecord `json:"lots"`
}

// lotRecord carries the abbreviated lot fields Copart returns. Lot numbers
// arrive as lotNumberStr on current payloads and as the numeric ln on older
// ones; both are honored.
type lotRecord struct {
	LotNumberStr string      `json:"lotNumberStr"`
	LotNumber    json.Number `json:"ln"`
	Make         string      `json:"mkn"`
	Model        string      `json:"lm"`
	Year         json.Number `json:"lcy"`
	Odometer     json.Number `json:"orr"`
	Transmission string      `json:"tmtp"`
	DamageCode   string      `json:"dtc"`
	V5Document   string      `json:"vdn"`
	SaleTitle    string      `json:"stt"`
	BuyNowPrice  json.Number `json:"bnp"`
	Currency     string      `json:"cuc"`
	AuctionDate  json.Number `json:"ad"`
}

func decodeSearchResponse(body []byte) (models.SearchResult, error) {
	var envelope searchEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.SearchResult{}, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}

	var (
		content []lotRecord
		total   int
	)
	switch {
	case envelope.Data != nil:
		content = envelope.Data.Results.Content
		total = envelope.Data.Results.TotalElements
	case envelope.Lots != nil:
		content = envelope.Lots
	default:
		return models.SearchResult{}, fmt.Errorf("%w: no lot content", ErrUnexpectedPayload)
	}

	listings := make([]models.Listing, 0, len(content))
	for _, lot := range content {
		listing, ok := lot.toListing()
		if !ok {
			continue
		}
		listings = append(listings, listing)
	}
	listings = dedupeByLot(listings)

	if total < len(listings) {
		total = len(listings)
	}
	return models.SearchResult{Listings: listings, Total: total, Source: models.SourceAPI}, nil
}

func (r lotRecord) toListing() (models.Listing, bool) {
	id := strings.TrimSpace(r.LotNumberStr)
	if id == "" {
		id = strings.TrimSpace(r.LotNumber.String())
	}
	if id == "" {
		return models.Listing{}, false
	}

	listing := models.Listing{
		LotNumber:    id,
		Make:         strings.TrimSpace(r.Make),
		Model:        strings.TrimSpace(r.Model),
		Year:         numberToInt(r.Year),
		Mileage:      numberToInt(r.Odometer),
		Transmission: models.ParseTransmission(r.Transmission),
		DamageCode:   strings.ToUpper(strings.TrimSpace(r.DamageCode)),
		HasV5:        strings.TrimSpace(r.V5Document) != "",
		Category:     strings.TrimSpace(r.SaleTitle),
		Price:        numberToInt(r.BuyNowPrice),
		Currency:     strings.TrimSpace(r.Currency),
		URL:          lotURL(id),
		Source:       models.SourceAPI,
	}
	if ms := numberToInt64(r.AuctionDate); ms > 0 {
		listing.AuctionDate = time.UnixMilli(ms).UTC()
	}
	return listing, true
}

func numberToInt(n json.Number) int {
	return int(numberToInt64(n))
}

// numberToInt64 accepts the integer and float spellings Copart mixes freely.
func numberToInt64(n json.Number) int64 {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return v
	}
	if f, err := n.Float64(); err == nil {
		return int64(f)
	}
	return 0
}

func dedupeByLot(listings []models.Listing) []models.Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]models.Listing, 0, len(listings))
	for _, listing := range listings {
		if _, ok := seen[listing.LotNumber]; ok {
			continue
		}
		seen[listing.LotNumber] = struct{}{}
		out = append(out, listing)
	}
	return out
}
