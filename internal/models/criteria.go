package models

import (
	"fmt"
	"strings"
)

// Criteria is the static filter configuration defining a matching listing.
// Zero values are not meaningful; start from DefaultCriteria.
type Criteria struct {
	Category     string       `json:"category"`
	YearMin      int          `json:"year_min"`
	YearMax      int          `json:"year_max"`
	Transmission Transmission `json:"transmission"`
	MileageMin   int          `json:"mileage_min"`
	MileageMax   int          `json:"mileage_max"`
	DamageCodes  []string     `json:"damage_codes"`
	RequireV5    bool         `json:"require_v5"`
}

// DefaultCriteria returns the compiled-in search criteria:
// Category U, 2020-2027, automatic, 0-80,000 miles, minor or no damage,
// V5 document present.
func DefaultCriteria() Criteria {
	return Criteria{
		Category:     CategoryU,
		YearMin:      2020,
		YearMax:      2027,
		Transmission: TransmissionAutomatic,
		MileageMin:   0,
		MileageMax:   80000,
		DamageCodes:  []string{DamageMinor, DamageNone},
		RequireV5:    true,
	}
}

// AllowsDamage reports whether code is in the allowed damage set.
func (c Criteria) AllowsDamage(code string) bool {
	for _, allowed := range c.DamageCodes {
		if strings.EqualFold(strings.TrimSpace(code), allowed) {
			return true
		}
	}
	return false
}

// Describe renders the criteria as human-readable bullet lines for alert
// messages and verbose logs.
func (c Criteria) Describe() []string {
	category := c.Category
	if category == CategoryU {
		category = "U (Undamaged/Unrecorded)"
	}
	lines := []string{
		fmt.Sprintf("Category: %s", category),
		fmt.Sprintf("Year: %d-%d", c.YearMin, c.YearMax),
		fmt.Sprintf("Transmission: %s", c.Transmission),
		fmt.Sprintf("Mileage: %s-%s miles", GroupThousands(c.MileageMin), GroupThousands(c.MileageMax)),
		fmt.Sprintf("Damage: %s", describeDamage(c.DamageCodes)),
	}
	if c.RequireV5 {
		lines = append(lines, "Has V5 document")
	}
	return lines
}

func describeDamage(codes []string) string {
	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		switch code {
		case DamageMinor:
			labels = append(labels, "Minor")
		case DamageNone:
			labels = append(labels, "None")
		default:
			labels = append(labels, code)
		}
	}
	if len(labels) == 0 {
		return "any"
	}
	return strings.Join(labels, " or ")
}
