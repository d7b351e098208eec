package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// rule maps any of its substrings (matched case-insensitively) to a value. Rule lists are
// evaluated in order; the first match wins.
type rule struct {
	contains []string
	value    string
}

func firstMatch(rules []rule, text, fallback string) string {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, c := range r.contains {
			if strings.Contains(lower, c) {
				return r.value
			}
		}
	}
	return fallback
}

const (
	degreeAny             = "Any"
	demandLabelDefault    = "Growing"
	salaryHighIncome      = "$60k-$120k"
	salaryDefault         = "$15k-$50k"
	maxUniversitiesListed = 5
)

var degreeRules = []rule{
	{contains: []string{"phd", "doctor"}, value: "PhD"},
	{contains: []string{"master"}, value: "Masters"},
	{contains: []string{"bachelor"}, value: "Bachelors"},
	{contains: []string{"certificate", "diploma"}, value: "Certificate/Diploma"},
}

var salaryRules = []rule{
	{contains: []string{"very high"}, value: "$90k-$180k"},
	{contains: []string{"high"}, value: "$70k-$140k"},
	{contains: []string{"growing"}, value: "$50k-$110k"},
	{contains: []string{"emerging"}, value: "$40k-$90k"},
}

var demandLabelRules = []rule{
	{contains: []string{"very high"}, value: "Very High"},
	{contains: []string{"high"}, value: "High"},
	{contains: []string{"growing"}, value: "Growing"},
	{contains: []string{"emerging"}, value: "Emerging"},
}

// highIncomeCountries holds normalized country names and keys.
var highIncomeCountries = map[string]bool{
	"united states":  true,
	"usa":            true,
	"us":             true,
	"united kingdom": true,
	"uk":             true,
	"singapore":      true,
	"australia":      true,
	"canada":         true,
	"germany":        true,
	"switzerland":    true,
	"netherlands":    true,
	"sweden":         true,
	"norway":         true,
	"denmark":        true,
	"ireland":        true,
	"japan":          true,
	"new zealand":    true,
	"france":         true,
}

// universityMarkers are lower-cased substrings that mark a reference as an academic institution.
var universityMarkers = []string{
	"university", "institute", "college",
	"mit", "stanford", "harvard", "oxford", "cambridge", "nus", "ntu", "eth",
}

var skillAcronyms = map[string]string{
	"ai": "AI",
	"ml": "ML",
}

// SkillName turns a skill key like "ai_machine_learning" into "AI Machine Learning".
func SkillName(key string) string {
	parts := strings.Split(key, "_")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		lower := strings.ToLower(p)
		if a, ok := skillAcronyms[lower]; ok {
			out = append(out, a)
			continue
		}
		r, size := utf8.DecodeRuneInString(lower)
		out = append(out, string(unicode.ToTitle(r))+lower[size:])
	}
	return strings.Join(out, " ")
}

// DegreeBucket classifies free-text education requirements.
func DegreeBucket(requiredEducation string) string {
	return firstMatch(degreeRules, requiredEducation, degreeAny)
}

// DemandLabel reduces a demand description to Very High, High, Growing or Emerging.
func DemandLabel(demandLevel string) string {
	return firstMatch(demandLabelRules, demandLevel, demandLabelDefault)
}

// SalaryRange estimates a salary band from the demand level, then the country tier.
func SalaryRange(demandLevel string, c Country) string {
	if v := firstMatch(salaryRules, demandLevel, ""); v != "" {
		return v
	}
	if isHighIncome(c.Name) || isHighIncome(c.Key) {
		return salaryHighIncome
	}
	return salaryDefault
}

func isHighIncome(name string) bool {
	n := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "_", " ")))
	return n != "" && highIncomeCountries[n]
}

// Universities picks institution names out of reference strings, in order of first appearance,
// de-duplicated case-insensitively and capped at five.
func Universities(references []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, ref := range references {
		if len(out) == maxUniversitiesListed {
			break
		}
		if !mentionsInstitution(ref) {
			continue
		}
		label := universityLabel(ref)
		k := strings.ToLower(label)
		if label == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, label)
	}
	return out
}

// mentionsInstitution matches the generic markers as substrings and the short institution names
// as whole words, so "Smith" does not count as MIT.
func mentionsInstitution(ref string) bool {
	lower := strings.ToLower(ref)
	for _, m := range universityMarkers {
		if len(m) > 4 {
			if strings.Contains(lower, m) {
				return true
			}
			continue
		}
		if containsWord(lower, m) {
			return true
		}
	}
	return false
}

func containsWord(text, word string) bool {
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if f == word {
			return true
		}
	}
	return false
}

// universityLabel keeps the text before the first " - ", "(" or "http". A reference that opens
// with a URL is labelled from the text after its first " - ".
func universityLabel(ref string) string {
	if label := labelPrefix(ref); label != "" {
		return label
	}
	if _, after, ok := strings.Cut(ref, " - "); ok {
		return labelPrefix(after)
	}
	return ""
}

func labelPrefix(ref string) string {
	end := len(ref)
	for _, sep := range []string{" - ", "(", "http"} {
		if i := strings.Index(ref, sep); i >= 0 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(ref[:end]), ":,-"))
}
