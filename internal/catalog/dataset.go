// Package catalog loads the country/skill dataset and the topics list and flattens the dataset
// into search records.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Dataset is the decoded countries.json. Countries and skills keep file order.
type Dataset struct {
	Countries []Country
}

// Country is one entry of the "countries" object.
type Country struct {
	Key    string
	Name   string
	Flag   string
	Skills []Skill
}

// Skill is one entry of a country's "skills" object.
type Skill struct {
	Key               string     `json:"-"`
	DemandLevel       string     `json:"skill_demand_level"`
	Overview          string     `json:"overview"`
	RequiredEducation string     `json:"required_education"`
	Certifications    StringList `json:"certifications"`
	Advantages        StringList `json:"advantages"`
	Limitations       StringList `json:"limitations"`
	References        StringList `json:"references"`
	StudyPaths        StringList `json:"study_paths"`
}

// StringList decodes either a JSON string or an array of strings. Non-string array elements are
// kept in their JSON text form.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = StringList{one}
		}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		if string(b) == "null" {
			*l = nil
			return nil
		}
		return err
	}
	out := make(StringList, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, strings.TrimSpace(string(r)))
	}
	*l = out
	return nil
}

var errNotObject = errors.New("expected JSON object")

// ParseDataset decodes countries.json, preserving the key order of the countries and skills
// objects. An empty or missing "countries" object yields an empty dataset.
func ParseDataset(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	ds := &Dataset{}
	err := eachKey(dec, func(key string) error {
		if key != "countries" {
			return skipValue(dec)
		}
		return eachKey(dec, func(countryKey string) error {
			c, err := decodeCountry(dec, countryKey)
			if err != nil {
				return fmt.Errorf("country %q: %w", countryKey, err)
			}
			ds.Countries = append(ds.Countries, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func decodeCountry(dec *json.Decoder, key string) (Country, error) {
	c := Country{Key: key}
	err := eachKey(dec, func(field string) error {
		switch field {
		case "name":
			return dec.Decode(&c.Name)
		case "flag":
			return dec.Decode(&c.Flag)
		case "skills":
			return eachKey(dec, func(skillKey string) error {
				s := Skill{Key: skillKey}
				if err := dec.Decode(&s); err != nil {
					return fmt.Errorf("skill %q: %w", skillKey, err)
				}
				c.Skills = append(c.Skills, s)
				return nil
			})
		default:
			return skipValue(dec)
		}
	})
	return c, err
}

// eachKey reads one JSON object from dec and calls fn for each key with dec positioned at its
// value. fn must consume the value. A null in place of the object is treated as empty.
func eachKey(dec *json.Decoder, fn func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errNotObject
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errNotObject
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func skipValue(dec *json.Decoder) error {
	var discard json.RawMessage
	return dec.Decode(&discard)
}
