// Package nec holds a quick-reference index of commonly cited National
// Electrical Code articles. It backs the API lookup endpoints and gives
// validation findings human-readable context for their code references.
package nec

import (
	"sort"
	"strings"
)

// quickReference maps NEC article numbers to one-line summaries. This is
// a field reference, not the code text itself.
var quickReference = map[string]string{
	"210.8":             "GFCI Protection - Bathrooms, kitchens, outdoors, basements, garages",
	"210.12":            "AFCI Protection - Bedrooms, living areas, hallways",
	"210.19":            "Conductor Sizing - Voltage drop recommendations",
	"210.20":            "Overcurrent Protection",
	"220":               "Branch Circuit, Feeder & Service Load Calculations",
	"225":               "Outside Branch Circuits & Feeders",
	"230":               "Services - Service entrance requirements",
	"250":               "Grounding & Bonding",
	"300.5":             "Underground Installations - Burial depths",
	"300.6":             "Protection Against Corrosion",
	"310.12":            "Conductor Identification - Color coding",
	"310.16":            "Ampacity Tables - Conductor current ratings",
	"Chapter 9 Table 1": "Conduit Fill Percentages",
	"Chapter 9 Table 4": "Dimensions of Conduit",
	"Chapter 9 Table 5": "Dimensions of Wire",
	"314":               "Outlet, Device, Pull & Junction Boxes",
	"334":               "NM Cable (Romex)",
	"358":               "EMT - Electrical Metallic Tubing",
	"344":               "RMC - Rigid Metal Conduit",
	"352":               "PVC - Rigid PVC Conduit",
	"430":               "Motors & Motor Controllers",
	"450":               "Transformers",
	"517":               "Health Care Facilities",
	"680":               "Swimming Pools, Fountains & Similar",
	"700":               "Emergency Systems",
	"702":               "Optional Standby Systems",
	"705":               "Interconnected Electric Power Production",
}

// Lookup returns the summary for an exact article number, matched
// case-insensitively after trimming.
func Lookup(article string) (string, bool) {
	needle := normalize(article)
	for k, v := range quickReference {
		if normalize(k) == needle {
			return v, true
		}
	}
	return "", false
}

// Entry pairs an article number with its one-line summary.
type Entry struct {
	Article     string `json:"article"`
	Description string `json:"description"`
}

// Search returns every article whose number contains the query,
// case-insensitively. "210" finds 210.8, 210.12, 210.19, and 210.20.
// Results come back sorted by article for stable API responses.
func Search(query string) []Entry {
	needle := normalize(query)
	matches := make([]Entry, 0)
	for k, v := range quickReference {
		if strings.Contains(normalize(k), needle) {
			matches = append(matches, Entry{Article: k, Description: v})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Article < matches[j].Article
	})
	return matches
}

// All returns a copy of the full quick reference.
func All() map[string]string {
	out := make(map[string]string, len(quickReference))
	for k, v := range quickReference {
		out[k] = v
	}
	return out
}

// Articles returns the article numbers in sorted order.
func Articles() []string {
	out := make([]string, 0, len(quickReference))
	for k := range quickReference {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Suggestion is the hint returned when a lookup finds nothing.
const Suggestion = "Try searching: 210.8 (GFCI), 210.12 (AFCI), 250 (Grounding), 310.16 (Ampacity)"

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
