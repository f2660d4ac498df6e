package notify

import (
	"fmt"
	"strings"

	"copartwatch/internal/models"
)

// maxAlertLots caps how many lots one alert spells out; Telegram bodies top
// out at 4096 characters, so the rest is summarized into a count.
const maxAlertLots = 10

// ComposeAlert renders the notification body for a batch of fresh listings.
// total is the full result count reported by the search, searchURL the page
// link placed in the footer.
func ComposeAlert(fresh []models.Listing, total int, criteria models.Criteria, searchURL string) string {
	var b strings.Builder

	b.WriteString("🚗 New Copart Alert!\n\n")
	if len(fresh) == 1 {
		b.WriteString("1 new car matching your criteria on Copart UK.\n")
	} else {
		fmt.Fprintf(&b, "%d new cars matching your criteria on Copart UK.\n", len(fresh))
	}

	shown := fresh
	if len(shown) > maxAlertLots {
		shown = shown[:maxAlertLots]
	}
	for _, listing := range shown {
		b.WriteString("\n")
		b.WriteString(listing.Title())
		b.WriteString("\n")
		b.WriteString(listing.MileageLabel())
		b.WriteString("\n")
		if price := listing.PriceLabel(); price != "" {
			b.WriteString(price)
			b.WriteString("\n")
		}
		b.WriteString(listing.URL)
		b.WriteString("\n")
	}
	if hidden := len(fresh) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "\n...and %d more\n", hidden)
	}

	fmt.Fprintf(&b, "\nTotal listings: %d\n", total)

	b.WriteString("\nCriteria:\n")
	for _, line := range criteria.Describe() {
		b.WriteString("• ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("• All makes & models\n")

	if searchURL != "" {
		b.WriteString("\nView: ")
		b.WriteString(searchURL)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
