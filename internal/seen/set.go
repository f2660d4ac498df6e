// Package seen persists the lot numbers previous runs have already
// alerted on and computes which current listings are new.
package seen

import (
	"sort"
	"strings"

	"copartwatch/internal/models"
)

// Set holds seen lot numbers.
type Set map[string]struct{}

// NewSet builds a set from ids, ignoring blank entries.
func NewSet(ids ...string) Set {
	set := make(Set, len(ids))
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

func (s Set) Add(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

func (s Set) Remove(id string) {
	delete(s, strings.TrimSpace(id))
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// IDs returns the members in sorted order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Union returns a new set containing the receiver's members plus ids.
// The receiver is left untouched.
func (s Set) Union(ids []string) Set {
	out := make(Set, len(s)+len(ids))
	for id := range s {
		out[id] = struct{}{}
	}
	for _, id := range ids {
		out.Add(id)
	}
	return out
}

// Diff returns the listings whose lot number is not in the set, preserving
// input order. Duplicate lot numbers within current collapse to the first
// occurrence.
func Diff(current []models.Listing, seen Set) []models.Listing {
	fresh := make([]models.Listing, 0, len(current))
	yielded := make(Set, len(current))

	for _, listing := range current {
		if listing.LotNumber == "" {
			continue
		}
		if yielded.Has(listing.LotNumber) {
			continue
		}
		yielded.Add(listing.LotNumber)
		if seen.Has(listing.LotNumber) {
			continue
		}
		fresh = append(fresh, listing)
	}

	return fresh
}

// LotNumbers extracts the identifiers from listings, in order.
func LotNumbers(listings []models.Listing) []string {
	ids := make([]string, 0, len(listings))
	for _, listing := range listings {
		if listing.LotNumber == "" {
			continue
		}
		ids = append(ids, listing.LotNumber)
	}
	return ids
}
