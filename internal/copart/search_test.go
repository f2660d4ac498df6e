package copart

import (
	"strings"
	"testing"

	"copartwatch/internal/models"
)

func TestBuildMiscFilterDefaultCriteria(t *testing.T) {
	want := "#TITL:sale_title_type:U #LotYear:[2020 TO 2027] #V5:v5_document_number:* " +
		"#TMTP:transmission_type:Automatic " +
		"(#PRID:damage_type_code:DAMAGECODE_MN OR #PRID:damage_type_code:DAMAGECODE_NO) " +
		"#ODM:odometer_reading:[0 TO 80000]"

	got := buildMiscFilter(models.DefaultCriteria())
	if got != want {
		t.Fatalf("filter mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestBuildMiscFilterSingleDamageCode(t *testing.T) {
	criteria := models.DefaultCriteria()
	criteria.DamageCodes = []string{models.DamageNone}

	got := buildMiscFilter(criteria)
	want := "#PRID:damage_type_code:DAMAGECODE_NO"
	if !strings.Contains(got, want) {
		t.Fatalf("expected single damage clause %q in %q", want, got)
	}
	if strings.Contains(got, "(") || strings.Contains(got, " OR ") {
		t.Fatalf("single damage code should not be grouped: %q", got)
	}
}

func TestBuildMiscFilterOptionalClauses(t *testing.T) {
	criteria := models.Criteria{YearMin: 2015, YearMax: 2018, MileageMin: 100, MileageMax: 5000}

	got := buildMiscFilter(criteria)
	want := "#LotYear:[2015 TO 2018] #ODM:odometer_reading:[100 TO 5000]"
	if got != want {
		t.Fatalf("expected only range clauses:\n got %q\nwant %q", got, want)
	}
}

func TestBuildSearchForm(t *testing.T) {
	form := buildSearchForm(models.DefaultCriteria())

	cases := []struct {
		key  string
		want string
	}{
		{"draw", "1"},
		{"start", "0"},
		{"length", "100"},
		{"page", "1"},
		{"size", "100"},
		{"query", "*"},
		{"sort", "auction_date_type desc,auction_date_utc asc"},
	}
	for _, tc := range cases {
		if got := form.Get(tc.key); got != tc.want {
			t.Fatalf("form[%s] = %q, want %q", tc.key, got, tc.want)
		}
	}

	if form.Get("filter[MISC]") != buildMiscFilter(models.DefaultCriteria()) {
		t.Fatalf("form filter should carry the misc expression, got %q", form.Get("filter[MISC]"))
	}
}
