package copart

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"copartwatch/internal/models"
	"copartwatch/internal/network"
	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
)

// fetchSearchPage loads the human search page with the criteria encoded in
// its searchCriteria query parameter and scrapes whatever lots the server
// rendered. The page already applies the filter server-side, so an empty
// parse is a valid empty result, not a failure.
func (c *Client) fetchSearchPage(ctx context.Context, criteria models.Criteria) (models.SearchResult, error) {
	target := c.pageURL + "?" + pageQuery(criteria)

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return models.SearchResult{}, err
	}
	applyPageHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.SearchResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != fhttp.StatusOK {
		return models.SearchResult{}, fmt.Errorf("%w: http %d", network.ErrRequestFailed, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.SearchResult{}, err
	}

	listings := parseSearchPage(doc)
	return models.SearchResult{Listings: listings, Total: len(listings), Source: models.SourcePage}, nil
}

func applyPageHeaders(req *fhttp.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	req.Header.Set("Referer", "https://www.copart.co.uk/")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// pageCriteria mirrors the JSON blob the search page encodes into its
// searchCriteria parameter. Field names and the quoted transmission value
// match what the site produces for a saved search.
type pageCriteria struct {
	Query          []string            `json:"query"`
	Filter         map[string][]string `json:"filter"`
	SearchName     string              `json:"searchName"`
	WatchListOnly  bool                `json:"watchListOnly"`
	FreeFormSearch bool                `json:"freeFormSearch"`
}

func pageQuery(criteria models.Criteria) string {
	filter := map[string][]string{
		"YEAR": {fmt.Sprintf("lot_year:[%d TO %d]", criteria.YearMin, criteria.YearMax)},
		"ODM":  {fmt.Sprintf("odometer_reading_received:[%d TO %d]", criteria.MileageMin, criteria.MileageMax)},
	}
	if criteria.Category != "" {
		filter["TITL"] = []string{"sale_title_type:" + criteria.Category}
	}
	if criteria.RequireV5 {
		filter["V5"] = []string{"v5_document_number:*"}
	}
	if criteria.Transmission != "" {
		filter["TMTP"] = []string{fmt.Sprintf("transmission_type:%q", string(criteria.Transmission))}
	}
	damage := make([]string, 0, len(criteria.DamageCodes))
	for _, code := range criteria.DamageCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		damage = append(damage, "damage_type_code:"+code)
	}
	if len(damage) > 0 {
		filter["PRID"] = damage
	}

	payload, _ := json.Marshal(pageCriteria{
		Query:  []string{"*"},
		Filter: filter,
	})

	params := url.Values{}
	params.Set("searchCriteria", string(payload))
	return params.Encode()
}

// parseSearchPage pulls lots from the page's ld+json blocks first, which
// carry the richest fields, then sweeps /lot/ anchors for anything the
// structured data missed. First occurrence of a lot number wins.
func parseSearchPage(doc *goquery.Document) []models.Listing {
	listings := parseVehicleJSONLD(doc)
	listings = append(listings, parseLotAnchors(doc)...)
	return dedupeByLot(listings)
}

func parseVehicleJSONLD(doc *goquery.Document) []models.Listing {
	var listings []models.Listing

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}
		listings = append(listings, vehiclesFromJSONLD(data)...)
	})

	return listings
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func vehiclesFromJSONLD(data any) []models.Listing {
	var listings []models.Listing

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			listings = append(listings, vehiclesFromJSONLD(item)...)
		}
	case map[string]any:
		switch typ := strings.ToLower(stringValue(value["@type"], value["type"])); typ {
		case "vehicle", "car", "motorcycle":
			if listing, ok := listingFromVehicle(value); ok {
				listings = append(listings, listing)
			}
			return listings
		case "itemlist":
			listings = append(listings, vehiclesFromItemList(value)...)
		}
		if graph, ok := value["@graph"]; ok {
			listings = append(listings, vehiclesFromJSONLD(graph)...)
		}
		if item, ok := value["item"]; ok {
			listings = append(listings, vehiclesFromJSONLD(item)...)
		}
		if main, ok := value["mainEntity"]; ok {
			listings = append(listings, vehiclesFromJSONLD(main)...)
		}
	}

	return listings
}

func vehiclesFromItemList(value map[string]any) []models.Listing {
	items, ok := value["itemListElement"]
	if !ok {
		return nil
	}

	var listings []models.Listing
	switch list := items.(type) {
	case []any:
		for _, item := range list {
			listings = append(listings, vehiclesFromJSONLD(item)...)
		}
	case map[string]any:
		listings = append(listings, vehiclesFromJSONLD(list)...)
	}
	return listings
}

func listingFromVehicle(value map[string]any) (models.Listing, bool) {
	pageURL := stringValue(value["url"], value["@id"])
	lot := stringValue(value["sku"], value["lotNumber"])
	if lot == "" {
		lot = lotFromURL(pageURL)
	}
	if lot == "" {
		return models.Listing{}, false
	}

	listing := models.Listing{
		LotNumber:    lot,
		Make:         stringValue(value["brand"], value["manufacturer"]),
		Model:        stringValue(value["model"]),
		Year:         intValue(value["vehicleModelDate"], value["modelDate"], value["productionDate"]),
		Mileage:      intValue(mapValue(value["mileageFromOdometer"], "value"), value["mileageFromOdometer"]),
		Transmission: models.ParseTransmission(stringValue(value["vehicleTransmission"])),
		DamageCode:   strings.ToUpper(stringValue(value["damageType"])),
		HasV5:        stringValue(value["v5DocumentNumber"]) != "",
		Category:     stringValue(value["saleTitleType"]),
		Price:        intValue(mapValue(value["offers"], "price")),
		Currency:     stringValue(mapValue(value["offers"], "priceCurrency")),
		URL:          pageURL,
		Source:       models.SourcePage,
	}
	if listing.URL == "" {
		listing.URL = lotURL(lot)
	}

	year, brand, model := splitTitle(stringValue(value["name"]))
	if listing.Year == 0 {
		listing.Year = year
	}
	if listing.Make == "" {
		listing.Make = brand
	}
	if listing.Model == "" {
		listing.Model = model
	}
	return listing, true
}

func parseLotAnchors(doc *goquery.Document) []models.Listing {
	var listings []models.Listing

	doc.Find("a[href*='/lot/']").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		lot := lotFromURL(href)
		if lot == "" {
			return
		}

		year, brand, model := splitTitle(s.Text())
		listings = append(listings, models.Listing{
			LotNumber: lot,
			Make:      brand,
			Model:     model,
			Year:      year,
			URL:       absoluteURL(SearchURL, href),
			Source:    models.SourcePage,
		})
	})

	return listings
}

// lotFromURL pulls the numeric lot id out of a /lot/ path, tolerating
// trailing slugs and query strings.
func lotFromURL(href string) string {
	idx := strings.Index(href, "/lot/")
	if idx < 0 {
		return ""
	}
	rest := href[idx+len("/lot/"):]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	return rest[:end]
}

// splitTitle breaks a display title like "2021 BMW 320I M SPORT" into year,
// make and model parts. The year is only taken when the leading token reads
// as a plausible model year.
func splitTitle(title string) (int, string, string) {
	fields := strings.Fields(cleanText(title))
	if len(fields) == 0 {
		return 0, "", ""
	}

	year := 0
	if n, err := strconv.Atoi(fields[0]); err == nil && n >= 1950 && n <= 2100 {
		year = n
		fields = fields[1:]
	}
	brand := ""
	if len(fields) > 0 {
		brand = fields[0]
		fields = fields[1:]
	}
	return year, brand, strings.Join(fields, " ")
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case json.Number:
			return v.String()
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func intValue(values ...any) int {
	for _, value := range values {
		switch v := value.(type) {
		case float64:
			return int(v)
		case json.Number:
			return numberToInt(v)
		case string:
			v = strings.TrimSpace(v)
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			// Dates like "2021-03-01" still carry the year up front.
			if len(v) >= 4 {
				if n, err := strconv.Atoi(v[:4]); err == nil {
					return n
				}
			}
		}
	}
	return 0
}

func mapValue(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}
