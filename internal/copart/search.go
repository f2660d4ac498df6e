package copart

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"copartwatch/internal/models"
)

// The vehicle finder takes a DataTables-style form post whose filter[MISC]
// field is a Lucene-ish expression over solr document fields.
const searchSort = "auction_date_type desc,auction_date_utc asc"

func buildSearchForm(criteria models.Criteria) url.Values {
	form := url.Values{}
	form.Set("draw", "1")
	form.Set("start", "0")
	form.Set("length", strconv.Itoa(pageSize))
	form.Set("page", "1")
	form.Set("size", strconv.Itoa(pageSize))
	form.Set("query", "*")
	form.Set("sort", searchSort)
	form.Set("filter[MISC]", buildMiscFilter(criteria))
	return form
}

// buildMiscFilter renders criteria into the filter[MISC] expression, e.g.
//
//	#TITL:sale_title_type:U #LotYear:[2020 TO 2027] #V5:v5_document_number:*
//	#TMTP:transmission_type:Automatic
//	(#PRID:damage_type_code:DAMAGECODE_MN OR #PRID:damage_type_code:DAMAGECODE_NO)
//	#ODM:odometer_reading:[0 TO 80000]
//
// Clause order matches the expression the site itself generates.
func buildMiscFilter(criteria models.Criteria) string {
	clauses := make([]string, 0, 6)

	if criteria.Category != "" {
		clauses = append(clauses, fmt.Sprintf("#TITL:sale_title_type:%s", criteria.Category))
	}
	clauses = append(clauses, fmt.Sprintf("#LotYear:[%d TO %d]", criteria.YearMin, criteria.YearMax))
	if criteria.RequireV5 {
		clauses = append(clauses, "#V5:v5_document_number:*")
	}
	if criteria.Transmission != "" {
		clauses = append(clauses, fmt.Sprintf("#TMTP:transmission_type:%s", criteria.Transmission))
	}
	if clause := damageClause(criteria.DamageCodes); clause != "" {
		clauses = append(clauses, clause)
	}
	clauses = append(clauses, fmt.Sprintf("#ODM:odometer_reading:[%d TO %d]", criteria.MileageMin, criteria.MileageMax))

	return strings.Join(clauses, " ")
}

func damageClause(codes []string) string {
	terms := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		terms = append(terms, "#PRID:damage_type_code:"+code)
	}
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}
