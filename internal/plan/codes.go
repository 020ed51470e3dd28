package plan

import (
	"regexp"
	"sort"
	"strings"
)

// The lookup tables below expand short institutional codes into descriptive
// names. They are intentionally partial: codes without an entry fall back to
// the raw short name. Read-only after init, safe for concurrent use.

// subjectNames maps subject code fragments to full subject names.
var subjectNames = map[string]string{
	"D":        "Deutsch",
	"De":       "Deutsch",
	"E":        "Englisch",
	"En":       "Englisch",
	"M":        "Mathe",
	"Ma":       "Mathe",
	"Geo":      "Geografie",
	"Phy":      "Physik",
	"Ph":       "Physik",
	"Ku":       "Kunst",
	"Sp":       "Sport",
	"Sn":       "Spanisch",
	"Fr":       "Französisch",
	"Bio":      "Biologie",
	"Ch":       "Chemie",
	"Gebi":     "Geschichte Bilingual",
	"Sem":      "Seminar",
	"PGW":      "PGW",
	"Re":       "Religion",
	"Ge":       "Geschichte",
	"Bläserkl": "Bläserklasse",
	"Kubi":     "Kunst Bilingual",
	"Biobi":    "Biologie Bilingual",
	"Thea":     "Theater",
	"Toefl":    "Toefl",
	"Phil":     "Philosophie",
	"BasisK":   "Basiskurs",
	"In":       "Informatik",
	"Wind":     "Gyloh Winds",
	"BigB":     "Bigband",
	"Förder":   "Förderung",
	"Osp":      "Oberstufensport",
}

// courseTypes maps course-type letters to their display form.
var courseTypes = map[string]string{
	"g": "G",
	"L": "L",
}

// groupProfiles maps upper-school profile codes to profile names.
var groupProfiles = map[string]string{
	"Nat":  "NuT-Profil",
	"Fort": "Biologieprofil",
	"Ku":   "Kunstprofil",
	"Le":   "Geschichtsprofil",
	"LeD":  "Geschichtsprofil",
	"LeE":  "History-Profil",
	"Spr":  "Sprachen/PGW-Profil",
	"Sp":   "Sportprofil",
}

// buildingNames maps building letters to building names. Letters mapping to
// the empty string are known buildings without a display name.
var buildingNames = map[string]string{
	"F": "Forum",
	"L": "Lichthof",
	"B": "",
	"A": "",
	"N": "",
	"V": "",
}

// roomNames maps room code fragments to room names.
var roomNames = map[string]string{
	"Geo":     "Geografieraum",
	"Sp":      "Sporthalle",
	"Chem":    "Chemieraum",
	"Phy":     "Physikraum",
	"Bio":     "Biologieraum",
	"Info":    "Computerraum",
	"Ku":      "Kunstraum",
	"Rapp":    "Rappelkiste",
	"Mu":      "Musikraum",
	"208/209": "208/209",
	"Büh":     "Bühne",
	"GW":      "Geschichtswerkstatt",
}

// Composite-code patterns, built once from the table key sets.
var (
	// subjectRegex: known subject fragment, optional course-type letter or
	// semester marker, optional numeric section, optional profile marker P.
	subjectRegex = regexp.MustCompile(
		`^(` + keyAlternation(subjectNames) + `)(` + keyAlternation(courseTypes) + `|S[0-9])?_?([0-9]+)?P?$`)

	// sportSuffixRegex: sport codes carrying a free-form discipline suffix,
	// e.g. "OspBb". Checked before the composite pattern.
	sportSuffixRegex = regexp.MustCompile(`^(Osp|Sp)([A-ZÄÖÜ][a-zäöüß]*)$`)

	// groupRegex: semester prefix, known profile fragment, optional number.
	groupRegex = regexp.MustCompile(
		`^(S1/2|S3/4)_(` + keyAlternation(groupProfiles) + `)(?: ([0-9]+))?$`)

	// roomRegex: building letter, optional room fragment, optional room
	// number, optional BR area suffix.
	roomRegex = regexp.MustCompile(
		`^(` + keyAlternation(buildingNames) + `) ?(` + keyAlternation(roomNames) + `)? ?([0-9]+)?(?:BR([0-9]+))?$`)
)

// keyAlternation builds a regex alternation from a table's key set.
// Longer keys come first so the leftmost match picks the most specific
// fragment ("De" before "D").
func keyAlternation(table map[string]string) string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for i, k := range keys {
		keys[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(keys, "|")
}

// NormalizeSubject expands a subject code into its descriptive name.
// Unknown codes are returned unchanged.
func NormalizeSubject(code string) string {
	if m := sportSuffixRegex.FindStringSubmatch(code); m != nil {
		if base, ok := subjectNames[m[1]]; ok {
			return base + " " + m[2]
		}
	}

	m := subjectRegex.FindStringSubmatch(code)
	if m == nil {
		return code
	}

	name := subjectNames[m[1]]
	courseType := m[2]
	if mapped, ok := courseTypes[courseType]; ok {
		courseType = mapped
	}
	number := m[3]

	var b strings.Builder
	b.WriteString(name)
	if courseType != "" || number != "" {
		b.WriteString(" ")
	}
	b.WriteString(courseType)
	b.WriteString(number)
	if strings.HasSuffix(code, "P") {
		b.WriteString(" (P)")
	}
	return b.String()
}

// NormalizeGroup expands a group/class code into its descriptive name.
// Unknown codes are returned unchanged.
func NormalizeGroup(code string) string {
	m := groupRegex.FindStringSubmatch(code)
	if m == nil {
		return code
	}
	return joinNonEmpty(m[1], groupProfiles[m[2]], m[3])
}

// NormalizeRoom expands a room code into its descriptive name.
// Unknown codes are returned unchanged.
func NormalizeRoom(code string) string {
	m := roomRegex.FindStringSubmatch(code)
	if m == nil {
		return code
	}
	building := buildingNames[m[1]]
	room := roomNames[m[2]]
	return joinNonEmpty(building, room, m[3], m[4])
}

// joinNonEmpty joins the non-empty pieces with single spaces.
func joinNonEmpty(pieces ...string) string {
	kept := pieces[:0:0]
	for _, p := range pieces {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
