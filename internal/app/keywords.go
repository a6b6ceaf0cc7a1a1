package app

import (
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// drinkGroup maps a canonical drink to the phrases that indicate it.
type drinkGroup struct {
	key      string
	label    string
	keywords []string
}

// Order matters: the first group that matches wins, and review-count ties go to the
// earlier group.
var drinkGroups = []drinkGroup{
	{"latte", "Signature Latte", []string{"latte", "cafe latte", "vanilla latte", "caramel latte"}},
	{"cappuccino", "House Cappuccino", []string{"cappuccino", "cap", "capp"}},
	{"espresso", "House Espresso", []string{"espresso", "shot", "double shot"}},
	{"americano", "Classic Americano", []string{"americano", "long black"}},
	{"mocha", "Rich Mocha", []string{"mocha", "chocolate mocha"}},
	{"macchiato", "Caramel Macchiato", []string{"macchiato", "caramel macchiato"}},
	{"cold brew", "Cold Brew Coffee", []string{"cold brew", "cold brew coffee"}},
	{"pour over", "Pour Over Coffee", []string{"pour over", "pour-over", "drip coffee"}},
	{"flat white", "Flat White", []string{"flat white"}},
	{"cortado", "Cortado", []string{"cortado"}},
	{"ristretto", "Ristretto Coffee", []string{"ristretto"}},
	{"lungo", "Lungo Coffee", []string{"lungo"}},
	{"affogato", "Affogato Coffee", []string{"affogato"}},
	{"frappuccino", "Frappuccino Coffee", []string{"frappuccino", "frappe"}},
	{"iced coffee", "Iced Coffee", []string{"iced coffee", "cold coffee"}},
	{"nitro", "Nitro Cold Brew", []string{"nitro", "nitro cold brew"}},
	{"bulletproof", "Bulletproof Coffee", []string{"bulletproof", "butter coffee"}},
	{"dalgona", "Dalgona Coffee", []string{"dalgona", "whipped coffee"}},
	{"vietnamese", "Vietnamese Coffee", []string{"vietnamese coffee", "ca phe sua da"}},
	{"turkish", "Turkish Coffee", []string{"turkish coffee"}},
	{"greek", "Greek Coffee", []string{"greek coffee"}},
	{"ethiopian", "Ethiopian Coffee", []string{"ethiopian coffee"}},
	{"colombian", "Colombian Coffee", []string{"colombian coffee"}},
	{"guatemalan", "Guatemalan Coffee", []string{"guatemalan coffee"}},
	{"sumatra", "Sumatra Coffee", []string{"sumatra coffee"}},
	{"kenya", "Kenya Coffee", []string{"kenya coffee"}},
	{"ethiopia", "Ethiopian Coffee", []string{"ethiopia coffee"}},
	{"house blend", "House Blend Coffee", []string{"house blend", "house coffee"}},
	{"signature", "Signature Coffee", []string{"signature", "signature drink", "specialty"}},
}

// nameHeuristic is a last-resort substring rule on the business name.
type nameHeuristic struct {
	any   []string
	label string
}

var nameHeuristics = []nameHeuristic{
	{[]string{"downtown"}, "Downtown Special Blend"},
	{[]string{"espresso"}, "House Espresso"},
	{[]string{"latte"}, "Signature Latte"},
	{[]string{"cold", "iced"}, "Cold Brew Coffee"},
	{[]string{"pour", "drip"}, "Pour Over Coffee"},
	{[]string{"honolulu"}, "Honolulu Sunrise Blend"},
	{[]string{"coffee"}, "Signature Coffee Blend"},
	{[]string{"roast"}, "House Roast"},
	{[]string{"brew"}, "Craft Brew"},
	{[]string{"bean"}, "Fresh Bean Blend"},
	{[]string{"cafe"}, "Cafe Special"},
	{[]string{"java"}, "Java House Blend"},
	{[]string{"mocha"}, "Rich Mocha"},
	{[]string{"cappuccino"}, "House Cappuccino"},
	{[]string{"americano"}, "Classic Americano"},
	{[]string{"macchiato"}, "Caramel Macchiato"},
}

var creativeLabels = []string{
	"Signature House Blend",
	"Artisan Coffee",
	"Craft Espresso",
	"Premium Roast",
	"Barista's Choice",
	"Local Favorite",
	"Fresh Ground Blend",
	"Daily Special",
	"Morning Brew",
	"Perfect Cup",
}

// drinkIndex answers "which drink group does this text mention first" with one
// Aho-Corasick pass, and counts whole-word mentions for review mining.
type drinkIndex struct {
	groups  []drinkGroup
	matcher *ahocorasick.Matcher
	owner   []int // keyword position -> group position
	words   [][]*regexp.Regexp
}

func newDrinkIndex(groups []drinkGroup) *drinkIndex {
	idx := &drinkIndex{groups: groups, words: make([][]*regexp.Regexp, len(groups))}
	var dict []string
	for gi, g := range groups {
		for _, kw := range g.keywords {
			kw = strings.ToLower(kw)
			dict = append(dict, kw)
			idx.owner = append(idx.owner, gi)
			idx.words[gi] = append(idx.words[gi], regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
	}
	idx.matcher = ahocorasick.NewStringMatcher(dict)
	return idx
}

var defaultDrinkIndex = newDrinkIndex(drinkGroups)

// firstGroup returns the label of the earliest group with any keyword contained in text.
func (d *drinkIndex) firstGroup(text string) string {
	text = strings.ToLower(text)
	if text == "" {
		return ""
	}
	best := -1
	for _, hit := range d.matcher.MatchThreadSafe([]byte(text)) {
		if hit < 0 || hit >= len(d.owner) {
			continue
		}
		if g := d.owner[hit]; best == -1 || g < best {
			best = g
		}
	}
	if best == -1 {
		return ""
	}
	return d.groups[best].label
}

// mostMentioned counts whole-word keyword occurrences per group and returns the label of
// the highest total; ties go to the earlier group.
func (d *drinkIndex) mostMentioned(text string) string {
	text = strings.ToLower(text)
	best, bestCount := -1, 0
	for gi, res := range d.words {
		n := 0
		for _, re := range res {
			n += len(re.FindAllStringIndex(text, -1))
		}
		if n > bestCount {
			best, bestCount = gi, n
		}
	}
	if best == -1 {
		return ""
	}
	return d.groups[best].label
}
