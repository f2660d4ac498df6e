package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"copartwatch/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func WriteListings(w io.Writer, listings []models.Listing, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, listings)
	case FormatCSV:
		return writeCSV(w, listings, ',')
	case FormatTSV:
		return writeCSV(w, listings, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, listings)
	default:
		return writeTable(w, listings, opts)
	}
}

func writeJSON(w io.Writer, listings []models.Listing) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}

func writeCSV(w io.Writer, listings []models.Listing, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, listing := range listings {
		if err := writer.Write(csvRow(listing)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, listings []models.Listing, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, listing := range listings {
		fmt.Fprintln(tw, strings.Join(tableRow(listing, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, listings []models.Listing) error {
	if len(listings) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, listing := range listings {
		urlLine := "  URL: -"
		if url := safe(listing.URL); url != "" {
			urlLine = fmt.Sprintf("  URL: [Open listing](<%s>)", url)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (lot %s)", safe(listing.Title()), safe(listing.LotNumber)),
			fmt.Sprintf("  Mileage: %s", listing.MileageLabel()),
			fmt.Sprintf("  Transmission: %s", safe(string(listing.Transmission))),
			fmt.Sprintf("  Damage: %s", damageLabel(listing.DamageCode)),
			fmt.Sprintf("  V5: %s", boolString(listing.HasV5)),
			urlLine,
		}
		if price := listing.PriceLabel(); price != "" {
			lines = append(lines, fmt.Sprintf("  Price: %s", price))
		}
		if !listing.AuctionDate.IsZero() {
			lines = append(lines, fmt.Sprintf("  Auction: %s", listing.AuctionDate.Format(time.RFC3339)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"lot_number",
		"year",
		"make",
		"model",
		"mileage",
		"transmission",
		"damage_code",
		"has_v5",
		"category",
		"price",
		"currency",
		"auction_date",
		"url",
		"source",
	}
}

func csvRow(listing models.Listing) []string {
	auction := ""
	if !listing.AuctionDate.IsZero() {
		auction = listing.AuctionDate.Format(time.RFC3339)
	}
	price := ""
	if listing.Price > 0 {
		price = strconv.Itoa(listing.Price)
	}
	return []string{
		listing.LotNumber,
		strconv.Itoa(listing.Year),
		listing.Make,
		listing.Model,
		strconv.Itoa(listing.Mileage),
		string(listing.Transmission),
		listing.DamageCode,
		boolString(listing.HasV5),
		listing.Category,
		price,
		listing.Currency,
		auction,
		listing.URL,
		listing.Source,
	}
}

func boolString(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func damageLabel(code string) string {
	switch code {
	case models.DamageMinor:
		return "Minor"
	case models.DamageNone:
		return "None"
	case "":
		return "-"
	default:
		return code
	}
}

func tableHeader() []string {
	return []string{
		"lot",
		"title",
		"mileage",
		"damage",
		"price",
		"url",
	}
}

func tableRow(listing models.Listing, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	url := safe(listing.URL)
	displayURL := "-"
	if url != "" {
		displayURL = url
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(url)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(url, displayURL)
		}
	}
	price := listing.PriceLabel()
	if price == "" {
		price = "-"
	}
	return []string{
		safe(listing.LotNumber),
		safe(listing.Title()),
		listing.MileageLabel(),
		damageLabel(listing.DamageCode),
		price,
		displayURL,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
