package catalog

import "net/url"

// SearchRecord is one flattened (country, skill) pair.
type SearchRecord struct {
	ID                string   `json:"id"`
	SkillKey          string   `json:"skillKey"`
	SkillName         string   `json:"skillName"`
	CountryKey        string   `json:"countryKey"`
	CountryName       string   `json:"countryName"`
	CountryFlag       string   `json:"countryFlag"`
	DemandLevel       string   `json:"demandLevel"`
	DemandLabel       string   `json:"demandLabel"`
	Degree            string   `json:"degree"`
	RequiredEducation string   `json:"requiredEducation"`
	SalaryRange       string   `json:"salaryRange"`
	Universities      []string `json:"universities"`
	URL               string   `json:"url"`
}

// BuildIndex flattens ds into search records, countries first then skills, both in file order.
// It does not modify ds. A nil or empty dataset yields an empty, non-nil slice.
func BuildIndex(ds *Dataset) []SearchRecord {
	out := []SearchRecord{}
	if ds == nil {
		return out
	}
	seen := make(map[string]bool)
	for _, c := range ds.Countries {
		for _, s := range c.Skills {
			id := c.Key + ":" + s.Key
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, buildRecord(id, c, s))
		}
	}
	return out
}

func buildRecord(id string, c Country, s Skill) SearchRecord {
	name := c.Name
	if name == "" {
		name = c.Key
	}
	return SearchRecord{
		ID:                id,
		SkillKey:          s.Key,
		SkillName:         SkillName(s.Key),
		CountryKey:        c.Key,
		CountryName:       name,
		CountryFlag:       c.Flag,
		DemandLevel:       s.DemandLevel,
		DemandLabel:       DemandLabel(s.DemandLevel),
		Degree:            DegreeBucket(s.RequiredEducation),
		RequiredEducation: s.RequiredEducation,
		SalaryRange:       SalaryRange(s.DemandLevel, c),
		Universities:      Universities(s.References),
		URL:               "/skill/" + url.PathEscape(s.Key) + "?country=" + url.QueryEscape(c.Key),
	}
}
