// Package catalog holds the fixed province and specialization tables shared by
// trainer matching and the user directory.
package catalog

import "strings"

// Province codes on requests are latin transliterations; trainer profiles
// store the localized governorate name.
var provinceNames = map[string]string{
	"cairo":          "القاهرة",
	"giza":           "الجيزة",
	"alexandria":     "الإسكندرية",
	"qalyubia":       "القليوبية",
	"sharqia":        "الشرقية",
	"dakahlia":       "الدقهلية",
	"gharbia":        "الغربية",
	"monufia":        "المنوفية",
	"beheira":        "البحيرة",
	"kafr_el_sheikh": "كفر الشيخ",
	"damietta":       "دمياط",
	"port_said":      "بورسعيد",
	"ismailia":       "الإسماعيلية",
	"suez":           "السويس",
	"fayoum":         "الفيوم",
	"beni_suef":      "بني سويف",
	"minya":          "المنيا",
	"asyut":          "أسيوط",
	"sohag":          "سوهاج",
	"qena":           "قنا",
	"luxor":          "الأقصر",
	"aswan":          "أسوان",
	"red_sea":        "البحر الأحمر",
	"new_valley":     "الوادي الجديد",
	"matrouh":        "مطروح",
	"north_sinai":    "شمال سيناء",
	"south_sinai":    "جنوب سيناء",
}

// Keyed by request-side code only. Entries are not mirrored: alexandria lists
// matrouh, matrouh lists nothing.
var nearbyProvinces = map[string][]string{
	"cairo":          {"giza", "qalyubia"},
	"giza":           {"cairo", "fayoum", "beni_suef"},
	"alexandria":     {"beheira", "matrouh"},
	"qalyubia":       {"cairo", "sharqia", "monufia", "gharbia"},
	"sharqia":        {"qalyubia", "dakahlia", "ismailia"},
	"dakahlia":       {"sharqia", "gharbia", "damietta"},
	"gharbia":        {"dakahlia", "monufia", "kafr_el_sheikh"},
	"monufia":        {"gharbia", "qalyubia", "beheira"},
	"beheira":        {"alexandria", "kafr_el_sheikh"},
	"kafr_el_sheikh": {"gharbia", "dakahlia"},
	"ismailia":       {"port_said", "suez"},
	"suez":           {"ismailia"},
	"fayoum":         {"giza", "beni_suef"},
	"beni_suef":      {"fayoum", "minya"},
	"minya":          {"beni_suef", "asyut"},
	"asyut":          {"minya", "sohag"},
	"sohag":          {"asyut", "qena"},
	"qena":           {"sohag", "luxor"},
	"luxor":          {"qena", "aswan"},
	"aswan":          {"luxor"},
}

var specializationNames = map[string]string{
	"communication":        "مهارات التواصل",
	"leadership":           "القيادة",
	"teamwork":             "العمل الجماعي",
	"time_management":      "إدارة الوقت",
	"project_management":   "إدارة المشروعات",
	"presentation":         "مهارات العرض والتقديم",
	"public_speaking":      "الخطابة والإلقاء",
	"problem_solving":      "حل المشكلات",
	"volunteer_management": "إدارة المتطوعين",
	"fundraising":          "تنمية الموارد",
	"first_aid":            "الإسعافات الأولية",
	"entrepreneurship":     "ريادة الأعمال",
}

var relatedSpecializations = map[string][]string{
	"communication":        {"presentation", "public_speaking", "teamwork"},
	"presentation":         {"communication", "public_speaking"},
	"public_speaking":      {"presentation", "communication"},
	"leadership":           {"teamwork", "project_management", "volunteer_management"},
	"teamwork":             {"leadership", "communication"},
	"project_management":   {"leadership", "time_management"},
	"time_management":      {"project_management"},
	"volunteer_management": {"leadership", "teamwork"},
	"fundraising":          {"entrepreneurship", "project_management"},
	"entrepreneurship":     {"fundraising"},
	"problem_solving":      {"leadership"},
}

var (
	provinceCodes       = invert(provinceNames)
	specializationCodes = invert(specializationNames)
)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for code, name := range m {
		out[name] = code
	}
	return out
}

func normalizeCode(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	value = strings.ReplaceAll(value, " ", "_")
	return strings.ReplaceAll(value, "-", "_")
}

// localize returns the localized name for a latin code, or the trimmed value
// unchanged when it is already localized or unknown.
func localize(names map[string]string, value string) string {
	if name, ok := names[normalizeCode(value)]; ok {
		return name
	}
	return strings.TrimSpace(value)
}

// toCode returns the latin code for a localized name or a latin value.
func toCode(names, codes map[string]string, value string) string {
	trimmed := strings.TrimSpace(value)
	if code, ok := codes[trimmed]; ok {
		return code
	}
	code := normalizeCode(trimmed)
	if _, ok := names[code]; ok {
		return code
	}
	return trimmed
}

func LocalizedProvince(value string) string {
	return localize(provinceNames, value)
}

func LocalizedSpecialization(value string) string {
	return localize(specializationNames, value)
}

func ProvinceCode(value string) string {
	return toCode(provinceNames, provinceCodes, value)
}

func SpecializationCode(value string) string {
	return toCode(specializationNames, specializationCodes, value)
}

// NearbyProvinces returns the neighbours listed for a request-side province,
// as latin codes.
func NearbyProvinces(province string) []string {
	return nearbyProvinces[ProvinceCode(province)]
}

func RelatedSpecializations(specialization string) []string {
	return relatedSpecializations[SpecializationCode(specialization)]
}

// HasSpecialization compares in the localized naming scheme so latin codes
// and localized names match each other.
func HasSpecialization(specializations []string, wanted string) bool {
	wanted = LocalizedSpecialization(wanted)
	if wanted == "" {
		return false
	}
	for _, specialization := range specializations {
		if LocalizedSpecialization(specialization) == wanted {
			return true
		}
	}
	return false
}
