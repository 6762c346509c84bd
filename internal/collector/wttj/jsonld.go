package wttj

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"job-insight/internal/normalizer"
	"job-insight/internal/pkg/textnorm"
)

var yearsRe = regexp.MustCompile(`(\d+)\s*(ans|an)\b`)

// findJobPosting returns the first JobPosting object in a JSON-LD payload,
// which may be a single object, an array or an @graph container.
func findJobPosting(raw []byte) map[string]any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return jobPostingIn(v)
}

func jobPostingIn(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		if typ, _ := t["@type"].(string); typ == "JobPosting" {
			return t
		}
		if g, ok := t["@graph"]; ok {
			return jobPostingIn(g)
		}
	case []any:
		for _, el := range t {
			if p := jobPostingIn(el); p != nil {
				return p
			}
		}
	}
	return nil
}

func applyPosting(rec *normalizer.WTTJRecord, m map[string]any) {
	if t := str(m["title"]); rec.Title == "" && t != "" {
		rec.Title = t
	}
	if d := str(m["datePosted"]); rec.Date == "" {
		rec.Date = d
	}
	rec.Description = str(m["description"])
	rec.Contract = str(m["employmentType"])
	rec.ContractNorm = NormalizeContract(rec.Contract)
	rec.Industry = str(m["industry"])
	rec.Salary = salaryText(m["baseSalary"])

	if loc := first(m["jobLocation"]); loc != nil {
		addr := obj(loc["address"])
		rec.Location = fmt.Sprintf("%s, %s", str(addr["addressLocality"]), str(addr["postalCode"]))
	}

	if years, ok := ExperienceYears(m); ok {
		y := years
		rec.ExperienceYears = &y
		rec.Experience = fmt.Sprintf("%d ans d’expérience", years)
	}

	if edu, ok := m["educationRequirements"]; ok {
		rec.Education = str(obj(edu)["credentialCategory"])
	}

	if org := obj(m["hiringOrganization"]); org != nil {
		if rec.Company == "" {
			rec.Company = str(org["name"])
		}
		rec.CompanyInfo = fmt.Sprintf("%s | %s | %s",
			str(org["name"]), str(obj(org["address"])["streetAddress"]), str(org["sameAs"]))
	}

	rec.CompetencesTechniques = skillsOf(m["skills"])
}

// NormalizeContract maps a free-form employment type to INTERN, TEMPORAIN,
// FULL_TIME or OTHER.
func NormalizeContract(v string) string {
	s := strings.ToUpper(strings.TrimSpace(v))
	switch {
	case strings.Contains(s, "INTERN"), strings.Contains(s, "STAGE"):
		return "INTERN"
	case strings.Contains(s, "TEMP"), strings.Contains(s, "CDD"), strings.Contains(s, "CONTRACT"):
		return "TEMPORAIN"
	case strings.Contains(s, "FULL"), strings.Contains(s, "CDI"):
		return "FULL_TIME"
	}
	return "OTHER"
}

// ExperienceYears reads monthsOfExperience when present, otherwise the first
// "<n> an(s)" mention in the experience requirements or the description.
func ExperienceYears(m map[string]any) (int, bool) {
	if exp := obj(m["experienceRequirements"]); exp != nil {
		if months, ok := number(exp["monthsOfExperience"]); ok {
			return int(math.RoundToEven(months / 12)), true
		}
	}
	for _, key := range []string{"experienceRequirements", "description"} {
		s, ok := m[key].(string)
		if !ok {
			continue
		}
		if sm := yearsRe.FindStringSubmatch(strings.ToLower(s)); sm != nil {
			if n, err := strconv.Atoi(sm[1]); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func salaryText(v any) string {
	bs := obj(v)
	if bs == nil {
		return ""
	}
	val := obj(bs["value"])
	if val == nil {
		return ""
	}
	return fmt.Sprintf("%s-%s %s/%s",
		str(val["minValue"]), str(val["maxValue"]), str(bs["currency"]), strings.ToLower(str(val["unitText"])))
}

func skillsOf(v any) textnorm.Loose {
	switch t := v.(type) {
	case string:
		return textnorm.Loose(textnorm.Split(t))
	case []any:
		out := make(textnorm.Loose, 0, len(t))
		for _, el := range t {
			switch s := el.(type) {
			case string:
				out = append(out, s)
			case map[string]any:
				if n := str(s["name"]); n != "" {
					out = append(out, n)
				}
			}
		}
		return out
	}
	return textnorm.Loose{}
}

func obj(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func first(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		if len(t) > 0 {
			return obj(t[0])
		}
	case map[string]any:
		return t
	}
	return nil
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			if s := str(el); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
