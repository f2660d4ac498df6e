// Package filter applies the static search criteria to fetched listings.
// The server-side query already narrows the result set, but the local
// predicates are what define a match; anything the page or API returns
// beyond them is dropped here.
package filter

import (
	"strings"

	"copartwatch/internal/models"
)

// Matches reports whether the listing satisfies every criteria predicate:
// category, year range, transmission, mileage range, damage code set and,
// when required, the V5 document flag. Range bounds are inclusive.
func Matches(listing models.Listing, criteria models.Criteria) bool {
	if !strings.EqualFold(listing.Category, criteria.Category) {
		return false
	}
	if listing.Year < criteria.YearMin || listing.Year > criteria.YearMax {
		return false
	}
	if listing.Transmission != criteria.Transmission {
		return false
	}
	if listing.Mileage < criteria.MileageMin || listing.Mileage > criteria.MileageMax {
		return false
	}
	if !criteria.AllowsDamage(listing.DamageCode) {
		return false
	}
	if criteria.RequireV5 && !listing.HasV5 {
		return false
	}
	return true
}

// Apply returns the listings that match, preserving input order.
func Apply(listings []models.Listing, criteria models.Criteria) []models.Listing {
	matched := make([]models.Listing, 0, len(listings))
	for _, listing := range listings {
		if Matches(listing, criteria) {
			matched = append(matched, listing)
		}
	}
	return matched
}
