package copart

import (
	"errors"
	"testing"
	"time"

	"copartwatch/internal/models"
)

func TestDecodeSearchResponse(t *testing.T) {
	body := `{
	  "data": {
	    "results": {
	      "totalElements": 245,
	      "content": [
	        {
	          "lotNumberStr": "41234567",
	          "mkn": "BMW",
	          "lm": "320I M SPORT",
	          "lcy": 2022,
	          "orr": 34120.5,
	          "tmtp": "AUTO",
	          "dtc": "damagecode_mn",
	          "vdn": "V5-991",
	          "stt": "U",
	          "bnp": 14250,
	          "cuc": "GBP",
	          "ad": 1717027200000
	        },
	        {
	          "lotNumberStr": "41234568",
	          "mkn": "FORD",
	          "lm": "FIESTA TITANIUM",
	          "lcy": 2021,
	          "orr": 12000,
	          "tmtp": "Automatic",
	          "dtc": "DAMAGECODE_NO",
	          "vdn": "",
	          "stt": "U"
	        }
	      ]
	    }
	  }
	}`

	result, err := decodeSearchResponse([]byte(body))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if result.Total != 245 {
		t.Fatalf("expected total 245, got %d", result.Total)
	}
	if result.Source != models.SourceAPI {
		t.Fatalf("expected api source, got %q", result.Source)
	}
	if len(result.Listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(result.Listings))
	}

	first := result.Listings[0]
	if first.LotNumber != "41234567" {
		t.Fatalf("unexpected lot number %q", first.LotNumber)
	}
	if first.Make != "BMW" || first.Model != "320I M SPORT" || first.Year != 2022 {
		t.Fatalf("unexpected identity fields: %+v", first)
	}
	if first.Mileage != 34120 {
		t.Fatalf("expected float odometer truncated to 34120, got %d", first.Mileage)
	}
	if first.Transmission != models.TransmissionAutomatic {
		t.Fatalf("expected AUTO normalized to Automatic, got %q", first.Transmission)
	}
	if first.DamageCode != models.DamageMinor {
		t.Fatalf("expected damage code upcased, got %q", first.DamageCode)
	}
	if !first.HasV5 {
		t.Fatal("expected V5 flag from vdn")
	}
	if first.Price != 14250 || first.Currency != "GBP" {
		t.Fatalf("unexpected price fields: %+v", first)
	}
	if first.URL != "https://www.copart.co.uk/lot/41234567" {
		t.Fatalf("unexpected lot URL %q", first.URL)
	}
	wantDate := time.UnixMilli(1717027200000).UTC()
	if !first.AuctionDate.Equal(wantDate) {
		t.Fatalf("expected auction date %v, got %v", wantDate, first.AuctionDate)
	}

	second := result.Listings[1]
	if second.HasV5 {
		t.Fatal("empty vdn should not set V5 flag")
	}
	if second.Price != 0 || !second.AuctionDate.IsZero() {
		t.Fatalf("missing optional fields should stay zero: %+v", second)
	}
}

func TestDecodeSearchResponseNumericLotFallback(t *testing.T) {
	body := `{"data":{"results":{"totalElements":1,"content":[{"ln":41234569,"mkn":"AUDI","lcy":2023}]}}}`

	result, err := decodeSearchResponse([]byte(body))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(result.Listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(result.Listings))
	}
	if result.Listings[0].LotNumber != "41234569" {
		t.Fatalf("expected ln fallback, got %q", result.Listings[0].LotNumber)
	}
}

func TestDecodeSearchResponseStringNumbers(t *testing.T) {
	body := `{"data":{"results":{"totalElements":1,"content":[
	  {"lotNumberStr":"900","mkn":"MINI","lcy":"2019","orr":"45000"}
	]}}}`

	result, err := decodeSearchResponse([]byte(body))
	if err != nil {
		t.Fatalf("string-typed numerics should decode: %v", err)
	}
	if len(result.Listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(result.Listings))
	}
	if result.Listings[0].Year != 2019 {
		t.Fatalf("expected year from string lcy, got %d", result.Listings[0].Year)
	}
	if result.Listings[0].Mileage != 45000 {
		t.Fatalf("expected mileage from string orr, got %d", result.Listings[0].Mileage)
	}
}

func TestDecodeSearchResponseFloatAuctionDate(t *testing.T) {
	body := `{"data":{"results":{"totalElements":1,"content":[{"lotNumberStr":"901","ad":1717027200000.0}]}}}`

	result, err := decodeSearchResponse([]byte(body))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	wantDate := time.UnixMilli(1717027200000).UTC()
	if !result.Listings[0].AuctionDate.Equal(wantDate) {
		t.Fatalf("expected auction date %v, got %v", wantDate, result.Listings[0].AuctionDate)
	}
}

func TestDecodeSearchResponseBareLots(t *testing.T) {
	body := `{"lots":[{"lotNumberStr":"555","mkn":"KIA"},{"lotNumberStr":"556","mkn":"SEAT"}]}`

	result, err := decodeSearchResponse([]byte(body))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(result.Listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(result.Listings))
	}
	if result.Total != 2 {
		t.Fatalf("bare payload total should default to listing count, got %d", result.Total)
	}
}

func TestDecodeSearchResponseInvalidJSON(t *testing.T) {
	_, err := decodeSearchResponse([]byte("<html>blocked</html>"))
	if !errors.Is(err, ErrUnexpectedPayload) {
		t.Fatalf("expected ErrUnexpectedPayload, got %v", err)
	}
}

func TestDecodeSearchResponseNoContent(t *testing.T) {
	_, err := decodeSearchResponse([]byte(`{"status":"ok"}`))
	if !errors.Is(err, ErrUnexpectedPayload) {
		t.Fatalf("expected ErrUnexpectedPayload for missing content, got %v", err)
	}
}

func TestDecodeSearchResponseEmptyContent(t *testing.T) {
	result, err := decodeSearchResponse([]byte(`{"data":{"results":{"totalElements":0,"content":[]}}}`))
	if err != nil {
		t.Fatalf("empty content is a valid empty result: %v", err)
	}
	if len(result.Listings) != 0 || result.Total != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestDecodeSearchResponseDedupesAndFixesTotal(t *testing.T) {
	body := `{"data":{"results":{"totalElements":1,"content":[
	  {"lotNumberStr":"777","mkn":"VW"},
	  {"lotNumberStr":"777","mkn":"VW"},
	  {"lotNumberStr":"778","mkn":"VW"},
	  {"mkn":"GHOST"}
	]}}}`

	result, err := decodeSearchResponse([]byte(body))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(result.Listings) != 2 {
		t.Fatalf("expected duplicate and blank lots dropped, got %d listings", len(result.Listings))
	}
	if result.Total != 2 {
		t.Fatalf("total should never undercount listings, got %d", result.Total)
	}
}
