// Package taxonomy maps free-text item labels to a fixed set of resale
// categories, each bound to a single-letter inventory code prefix.
//
// Classification is keyword based: the rule list is evaluated in priority
// order and the first rule whose keyword set matches wins. The order is a
// correctness property. Overlapping keywords (a hoodie is both "outerwear"
// and arguably a "top") must resolve to the more specific category, so
// jacket-type rules sit before the generic tops rule. Reordering the list
// changes classification outcomes.
package taxonomy

import "strings"

// Category is one entry of the fixed resale taxonomy.
type Category struct {
	Name        string
	Letter      string
	StorageTips []string
}

// rule binds a category to the keywords that select it. Rules are evaluated
// first-match-wins; keywords match by case-insensitive substring containment.
type rule struct {
	category Category
	keywords []string
}

// rules is the ordered classification table. More specific garment rules
// come before generic ones. The catch-all (letter Z, last in sort order)
// is not in this table; Classify falls through to it.
var rules = []rule{
	{
		category: Category{
			Name:   "Footwear",
			Letter: "E",
			StorageTips: []string{
				"Stuff with paper to hold shape",
				"Keep original box if available",
			},
		},
		keywords: []string{"shoe", "sneaker", "boot", "sandal", "heel", "loafer", "cleat", "trainer", "footwear"},
	},
	{
		category: Category{
			Name:   "Jackets & Outerwear",
			Letter: "B",
			StorageTips: []string{
				"Hang heavy coats, fold technical shells",
				"Zip zippers before storage",
			},
		},
		keywords: []string{"jacket", "hoodie", "coat", "parka", "windbreaker", "fleece", "sweatshirt", "outerwear", "vest", "anorak"},
	},
	{
		category: Category{
			Name:   "Dresses & Skirts",
			Letter: "D",
			StorageTips: []string{
				"Hang to avoid creasing",
			},
		},
		keywords: []string{"dress", "skirt", "gown", "romper", "jumpsuit"},
	},
	{
		category: Category{
			Name:   "Pants & Bottoms",
			Letter: "C",
			StorageTips: []string{
				"Fold along the seam",
			},
		},
		keywords: []string{"pants", "jeans", "shorts", "trousers", "leggings", "joggers", "chinos", "sweatpants", "bottoms"},
	},
	{
		category: Category{
			Name:   "Tops & Shirts",
			Letter: "A",
			StorageTips: []string{
				"Fold flat in bins",
				"Sort by size for quick picking",
			},
		},
		keywords: []string{"shirt", "tee", "t-shirt", "top", "blouse", "polo", "tank", "sweater", "cardigan", "jersey"},
	},
	{
		category: Category{
			Name:   "Accessories",
			Letter: "F",
			StorageTips: []string{
				"Small bins or zip bags per item",
			},
		},
		keywords: []string{"hat", "cap", "beanie", "belt", "bag", "backpack", "scarf", "watch", "sunglasses", "jewelry", "wallet", "purse", "glove"},
	},
	{
		category: Category{
			Name:   "Electronics",
			Letter: "G",
			StorageTips: []string{
				"Anti-static bags for bare boards",
				"Tape cables to the device",
				"Remove batteries before long storage",
			},
		},
		keywords: []string{"electronic", "phone", "console", "headphone", "earbud", "camera", "laptop", "tablet", "speaker", "monitor", "keyboard", "controller", "charger", "gpu"},
	},
	{
		category: Category{
			Name:   "Home & Kitchen",
			Letter: "H",
			StorageTips: []string{
				"Wrap fragile items individually",
			},
		},
		keywords: []string{"kitchen", "cookware", "mug", "blender", "lamp", "decor", "furniture", "appliance", "vacuum", "pan", "dish"},
	},
	{
		category: Category{
			Name:   "Toys & Games",
			Letter: "I",
			StorageTips: []string{
				"Bag loose pieces, count before listing",
			},
		},
		keywords: []string{"toy", "lego", "doll", "puzzle", "board game", "action figure", "plush", "playset"},
	},
	{
		category: Category{
			Name:   "Sporting Goods",
			Letter: "J",
			StorageTips: []string{
				"Deflate balls, loosen tension on racquets",
			},
		},
		keywords: []string{"golf", "bike", "bicycle", "ski", "snowboard", "racquet", "racket", "dumbbell", "fishing", "skate", "fitness", "exercise", "sporting"},
	},
	{
		category: Category{
			Name:   "Books & Media",
			Letter: "K",
			StorageTips: []string{
				"Store spine-down in dry bins",
			},
		},
		keywords: []string{"book", "vinyl", "record", "dvd", "blu-ray", "cd", "comic", "magazine", "video game", "cassette"},
	},
}

// catchAll absorbs anything no rule matches. Its letter sorts last so the
// taxonomy letters stay a contiguous, ordered namespace.
var catchAll = Category{
	Name:   "Other",
	Letter: "Z",
	StorageTips: []string{
		"Label clearly, photograph before binning",
	},
}

// Classify maps a free-text label to a taxonomy category. It is a total
// function: every input maps to some category, worst case the catch-all.
func Classify(raw string) Category {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return catchAll
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(label, kw) {
				return r.category
			}
		}
	}
	return catchAll
}

// All returns every category in priority order, catch-all last.
func All() []Category {
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, catchAll)
}

// ByLetter looks up a category by its letter code.
func ByLetter(letter string) (Category, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for _, r := range rules {
		if r.category.Letter == letter {
			return r.category, true
		}
	}
	if letter == catchAll.Letter {
		return catchAll, true
	}
	return Category{}, false
}

// CatchAll returns the fallback category.
func CatchAll() Category {
	return catchAll
}
