package prep

import (
	"regexp"

	"github.com/pantryloop/pantryloop/internal/domain"
)

// rule maps an ingredient name pattern to a derived prep task. Rules
// are checked in order and the first match wins, so an ingredient never
// produces two tasks.
type rule struct {
	pattern *regexp.Regexp
	label   string
	emoji   string
	minutes int
	kind    domain.PrepType
}

var rules = []rule{
	{regexp.MustCompile(`(?i)lettuce|spinach|greens|arugula|kale`), "Wash the greens", "🥬", 5, domain.PrepWash},
	{regexp.MustCompile(`(?i)parsley|cilantro|basil|herb`), "Wash and pick herbs", "🌿", 4, domain.PrepWash},
	{regexp.MustCompile(`(?i)onion|shallot`), "Chop onions", "🧅", 5, domain.PrepChop},
	{regexp.MustCompile(`(?i)garlic`), "Peel and mince garlic", "🧄", 3, domain.PrepChop},
	{regexp.MustCompile(`(?i)carrot|celery|pepper|broccoli|cucumber|zucchini`), "Chop vegetables", "🥕", 10, domain.PrepChop},
	{regexp.MustCompile(`(?i)tomato`), "Dice tomatoes", "🍅", 5, domain.PrepChop},
	{regexp.MustCompile(`(?i)chicken|beef|pork|lamb`), "Marinate the meat", "🥩", 10, domain.PrepMarinate},
	{regexp.MustCompile(`(?i)salmon|fish|shrimp`), "Marinate the fish", "🐟", 8, domain.PrepMarinate},
	{regexp.MustCompile(`(?i)cumin|paprika|spice|curry powder`), "Measure out spices", "🧂", 3, domain.PrepMeasure},
	{regexp.MustCompile(`(?i)^rice$|basmati|jasmine`), "Rinse and start rice", "🍚", 20, domain.PrepCook},
	{regexp.MustCompile(`(?i)beans|lentils|chickpeas`), "Soak the legumes", "🫘", 15, domain.PrepCook},
	{regexp.MustCompile(`(?i)butter|cheese|parmesan|feta`), "Bring dairy to temperature", "🧀", 2, domain.PrepOther},
}

// matchRule returns the first rule matching the ingredient name.
func matchRule(name string) (rule, bool) {
	for _, r := range rules {
		if r.pattern.MatchString(name) {
			return r, true
		}
	}
	return rule{}, false
}

// typePriority orders prep types for the final task list.
var typePriority = map[domain.PrepType]int{
	domain.PrepWash:     0,
	domain.PrepChop:     1,
	domain.PrepMarinate: 2,
	domain.PrepMeasure:  3,
	domain.PrepCook:     4,
	domain.PrepOther:    5,
}
