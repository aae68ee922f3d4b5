package menu

import (
	"regexp"
	"sort"
	"strings"
)

// The feed marks up each serving station as one span: the span text is the
// station label, the text that follows (until the next span) is the dish
// list. Dietary attributes ride along as ::token:: markers in the dish
// text.

// spanOpenRe matches the opening marker of a station block.
var spanOpenRe = regexp.MustCompile(`<span[^>]*>`)

// unknownTokenRe matches any leftover ::token:: marker after the known
// dietary substitutions have run, together with one leading space.
var unknownTokenRe = regexp.MustCompile(` ?::[a-zA-Z-]+::`)

// substitution is one ordered rewrite rule. Rules run in table order;
// later rules must not re-match markup inserted by earlier ones.
type substitution struct {
	pattern string
	repl    string
}

// dietTags rewrites the feed's dietary markers into fixed inline markup.
// Any marker not listed here is dropped by unknownTokenRe.
var dietTags = []substitution{
	{"::vegan::", `<sup class="diet diet-vegan">v</sup>`},
	{"::halal::", `<sup class="diet diet-halal">h</sup>`},
	{"::vegetarian::", `<sup class="diet diet-vegetarian">vg</sup>`},
	{"::egg::", `<sup class="diet diet-egg">e</sup>`},
	{"::milk::", `<sup class="diet diet-milk">m</sup>`},
	{"::soy::", `<sup class="diet diet-soy">s</sup>`},
	{"::wheat::", `<sup class="diet diet-wheat">w</sup>`},
	{"::fish::", `<sup class="diet diet-fish">f</sup>`},
	{"::gluten-free::", `<sup class="diet diet-gluten-free">gf</sup>`},
	{"::sesame::", `<sup class="diet diet-sesame">ses</sup>`},
	{"::alcohol::", `<sup class="diet diet-alcohol">a</sup>`},
}

// stationLabels rewrites the feed's free-text station names into the fixed
// display labels. Wording varies across semesters, so several aliases map
// to the same label; longer aliases must come before any alias they
// contain ("Spice of Life" before "Spice"). Every occurrence is replaced,
// and the feed's own trailing colon is kept as the label/dish separator.
var stationLabels = []substitution{
	{"Classics", "<b>Main 1</b>"},
	{"World of Flavor", "<b>Main 2</b>"},
	{"World Flavor", "<b>Main 2</b>"},
	{"Spice of Life", "<b>Main 3</b>"},
	{"Spice", "<b>Main 3</b>"},
	{"Verdant & Vegan", "<b>Vegan Main</b>"},
	{"Verdant and Vegan", "<b>Vegan Main</b>"},
	{"Free Zone", "<b>Allergen Choice</b>"},
	{"Field of Greens", "<b>Salad</b>"},
	{"Daily Kneads", "<b>Dessert</b>"},
}

// excludedPrefixes lists non-food promotional sections the feed mixes into
// the description. Blocks starting with one of these are dropped outright.
var excludedPrefixes = []string{
	"Fired Up",
	"Theme Night",
	"Menu Feedback",
}

// mainDishKeywords is the priority order for floating recognized mains to
// the front of a station's dish list. Matching is lowercase-substring.
var mainDishKeywords = []string{
	"taco",
	"chicken",
	"steak",
	"beef",
	"shrimp",
	"tofu",
	"seitan",
	"bacon",
	"sausage",
	"pork",
	"cod",
	"meatball",
	"tilapia",
	"salmon",
	"wing",
	"pizza",
	"pasta",
	"fried rice",
	"waffles",
	"french toast",
	"aloo gobi",
	"vindaloo",
}

// sectionOrder is the board's canonical station presentation order.
var sectionOrder = []string{
	"Main 1",
	"Main 2",
	"Main 3",
	"Vegan Main",
	"Allergen Choice",
	"Salad",
	"Dessert",
}

// ParseDescription turns one raw description blob into the ordered list of
// station lines for the board. It never fails; unparseable content just
// yields fewer lines.
func ParseDescription(description string) []string {
	blocks := make([]string, 0, 8)
	for _, fragment := range splitStations(description) {
		block := normalizeBlock(fragment)
		if block == "" || isExcluded(block) {
			continue
		}
		if block = sortMainDishes(block); block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	orderBlocks(blocks)
	return blocks
}

// splitStations converts the markup's block terminator into a label/dish
// separator and splits on the opening markers. The resulting fragments are
// in feed authoring order, not presentation order; the leading fragment is
// usually empty boilerplate and falls out downstream.
func splitStations(description string) []string {
	s := strings.ReplaceAll(description, "</span>", ": ")
	return spanOpenRe.Split(s, -1)
}

// normalizeBlock reduces one raw fragment to plain text with display
// markup: tags stripped, entities decoded, dietary markers and station
// names rewritten. Returns "" for blocks with no content.
func normalizeBlock(fragment string) string {
	text := strings.TrimSpace(DecodeEntities(StripTags(fragment)))
	for _, sub := range dietTags {
		text = strings.ReplaceAll(text, sub.pattern, sub.repl)
	}
	// Unrecognized dietary markers are dropped, not surfaced.
	text = unknownTokenRe.ReplaceAllString(text, "")
	for _, sub := range stationLabels {
		text = strings.ReplaceAll(text, sub.pattern, sub.repl)
	}
	return strings.TrimSpace(text)
}

func isExcluded(block string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(block, prefix) {
			return true
		}
	}
	return false
}

// sortMainDishes re-orders the dish list of one block so that recognized
// mains come first, in keyword priority order, bolded. Dishes are deduped
// by exact string, and residual dishes keep their original order. Blocks
// without a label/dish separator pass through unchanged; a block whose
// dish list is empty reduces to "" so the caller drops it.
func sortMainDishes(block string) string {
	sep := strings.Index(block, ":")
	if sep < 0 {
		return block
	}
	label := block[:sep]
	rest := strings.TrimLeft(block[sep:], ": ")

	dishes := make([]string, 0, 8)
	seen := make(map[string]bool)
	for _, d := range strings.Split(rest, ", ") {
		d = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(d), "& "))
		d = strings.TrimRight(d, ",")
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		dishes = append(dishes, d)
	}
	if len(dishes) == 0 {
		return ""
	}

	// Ordered scan with removal marks keeps the output deterministic.
	taken := make([]bool, len(dishes))
	out := make([]string, 0, len(dishes))
	for _, kw := range mainDishKeywords {
		for i, d := range dishes {
			if taken[i] {
				continue
			}
			if strings.Contains(strings.ToLower(d), kw) {
				taken[i] = true
				out = append(out, "<b>"+d+"</b>")
			}
		}
	}
	for i, d := range dishes {
		if !taken[i] {
			out = append(out, d)
		}
	}

	return label + ": " + strings.Join(out, ", ")
}

// orderBlocks sorts blocks in place into canonical station order. A block
// whose label is not canonical ranks as -1, so unrecognized stations sort
// ahead of recognized ones; the sort is stable, so ties keep feed order.
func orderBlocks(blocks []string) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return sectionRank(blocks[i]) < sectionRank(blocks[j])
	})
}

func sectionRank(block string) int {
	text := strings.TrimSpace(StripTags(block))
	for i, name := range sectionOrder {
		if strings.HasPrefix(text, name) {
			return i
		}
	}
	return -1
}
