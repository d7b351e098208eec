package catalog

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

func TestSkillName(t *testing.T) {
	tests := map[string]string{
		"ai_machine_learning": "AI Machine Learning",
		"ml_ops":              "ML Ops",
		"web_development":     "Web Development",
		"cybersecurity":       "Cybersecurity",
		"data__science_":      "Data Science",
		"AI_ethics":           "AI Ethics",
		"éducation_ai":        "Éducation AI",
		"ökonomie":            "Ökonomie",
	}
	for key, want := range tests {
		got := SkillName(key)
		if got != want {
			t.Errorf("SkillName(%q) = %q, want %q", key, got, want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("SkillName(%q) = %q is not valid UTF-8", key, got)
		}
	}
}

func TestDegreeBucket(t *testing.T) {
	tests := map[string]string{
		"PhD in Computer Science":  "PhD",
		"Doctorate preferred":      "PhD",
		"Master's degree or PhD":   "PhD",
		"Master's degree":          "Masters",
		"Bachelor's or Master's":   "Masters",
		"Bachelor's degree":        "Bachelors",
		"Diploma or certificate":   "Certificate/Diploma",
		"Professional Certificate": "Certificate/Diploma",
		"None required":            "Any",
		"":                         "Any",
	}
	for in, want := range tests {
		if got := DegreeBucket(in); got != want {
			t.Errorf("DegreeBucket(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSalaryRange(t *testing.T) {
	us := Country{Key: "united_states", Name: "United States"}
	cm := Country{Key: "cameroon", Name: "Cameroon"}
	byKey := Country{Key: "new_zealand"}
	tests := []struct {
		demand  string
		country Country
		want    string
	}{
		{"Very High demand", cm, "$90k-$180k"},
		{"HIGH", cm, "$70k-$140k"},
		{"Growing steadily", cm, "$50k-$110k"},
		{"Emerging market", us, "$40k-$90k"},
		{"Stable", us, "$60k-$120k"},
		{"", byKey, "$60k-$120k"},
		{"Stable", cm, "$15k-$50k"},
	}
	for _, tt := range tests {
		if got := SalaryRange(tt.demand, tt.country); got != tt.want {
			t.Errorf("SalaryRange(%q, %s) = %q, want %q", tt.demand, tt.country.Key, got, tt.want)
		}
	}
}

func TestDemandLabel(t *testing.T) {
	tests := map[string]string{
		"Very High demand": "Very High",
		"High":             "High",
		"growing":          "Growing",
		"Emerging":         "Emerging",
		"Stable":           "Growing",
	}
	for in, want := range tests {
		if got := DemandLabel(in); got != want {
			t.Errorf("DemandLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniversities(t *testing.T) {
	tests := []struct {
		name string
		refs []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"labels and dedupe", []string{
			"Stanford University - https://stanford.edu",
			"MIT (Massachusetts Institute of Technology)",
			"Coursera - https://coursera.org",
			"stanford university - again",
		}, []string{"Stanford University", "MIT"}},
		{"url suffix", []string{"Oxford Online https://ox.ac.uk"}, []string{"Oxford Online"}},
		{"short names are whole words", []string{"Smith & Partners", "ETH Zurich", "NTU Singapore"}, []string{"ETH Zurich", "NTU Singapore"}},
		{"cap at five", []string{
			"University A", "University B", "University C", "University D", "University E", "University F",
		}, []string{"University A", "University B", "University C", "University D", "University E"}},
		{"url only", []string{"https://www.university.edu"}, []string{}},
		{"leading url", []string{
			"https://www.mit.edu - MIT OpenCourseWare",
			"Stanford University - https://stanford.edu",
		}, []string{"MIT OpenCourseWare", "Stanford University"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Universities(tt.refs); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Universities = %#v, want %#v", got, tt.want)
			}
		})
	}
}
