// Package vocab holds the food word lists shared by the query classifier
// and the input validator. Every entry is lowercase.
package vocab

import "strings"

var connectives = []string{
	"alla", "al", "alle", "all", "with", "and", "of", "in", "on", "au", "aux",
	"de", "di", "du", "la", "le", "con", "e",
	"grilled", "braised", "roasted", "fried", "baked", "stuffed", "smoked",
	"glazed", "poached", "steamed", "seared", "pulled", "crispy",
	"pesto", "marinara", "bolognese", "alfredo", "teriyaki", "masala",
}

// Dish nouns are matched as substrings, so none of them may occur inside a
// common ingredient word.
var dishNouns = []string{
	"risotto", "pasta", "soup", "stew", "pie", "sushi", "curry", "salad",
	"burger", "sandwich", "pizza", "lasagn", "casserole", "omelet", "quiche",
	"tart", "cake", "taco", "burrito", "ramen", "kebab", "dumpling",
	"pancake", "waffle", "muffin", "brownie", "cookie", "chowder", "bisque",
	"gratin", "paella", "tagine", "biryani", "pilaf", "fritter", "gnocchi",
	"ravioli", "stir-fry", "stir fry", "skewer", "frittata", "enchilada",
	"quesadilla", "porridge", "smoothie", "crumble", "strudel",
}

var famousDishes = []string{
	"beef bourguignon", "boeuf bourguignon", "shepherd pie", "shepherd's pie",
	"coq au vin", "pad thai", "fish and chips", "tikka masala",
	"beef wellington", "eggs benedict", "banh mi", "moussaka", "ratatouille",
	"bibimbap", "tom yum", "mac and cheese", "chili con carne", "jambalaya",
	"gumbo", "shakshuka", "falafel", "hummus", "tabbouleh", "carbonara",
	"cacio e pepe", "osso buco", "chicken parmesan", "kung pao",
	"butter chicken", "pulled pork", "bangers and mash", "toad in the hole",
	"bubble and squeak", "beef stroganoff", "chicken kiev", "peking duck",
	"nasi goreng", "massaman", "vongole", "goulash", "pierogi",
}

var commonIngredients = []string{
	// proteins
	"chicken", "beef", "pork", "lamb", "turkey", "duck", "fish", "salmon",
	"tuna", "cod", "shrimp", "prawns", "tofu", "tempeh", "egg", "eggs",
	"bacon", "sausage", "ham", "chorizo", "mince", "steak", "clams", "mussels",
	// vegetables
	"potato", "potatoes", "onion", "onions", "garlic", "tomato", "tomatoes",
	"carrot", "carrots", "celery", "pepper", "peppers", "spinach", "kale",
	"broccoli", "cauliflower", "mushroom", "mushrooms", "zucchini",
	"courgette", "eggplant", "aubergine", "cabbage", "lettuce", "cucumber",
	"corn", "peas", "leek", "leeks", "squash", "pumpkin", "asparagus",
	"beetroot", "shallot", "shallots", "chili", "chilli", "avocado",
	// staples
	"rice", "noodles", "spaghetti", "penne", "bread", "flour", "oats",
	"quinoa", "couscous", "beans", "lentils", "chickpeas", "butter", "milk",
	"cream", "cheese", "yogurt", "parmesan", "mozzarella", "feta", "oil",
	"vinegar", "sugar", "honey", "salt", "soy", "stock",
	// fruit, herbs and spices
	"lemon", "lime", "apple", "apples", "banana", "bananas", "orange",
	"ginger", "basil", "parsley", "cilantro", "coriander", "thyme",
	"rosemary", "oregano", "cumin", "paprika", "turmeric", "cinnamon", "mint",
}

var nonFood = []string{
	"plastic", "poison", "bleach", "soap", "detergent", "gasoline", "petrol",
	"paint", "shampoo", "dirt", "cardboard", "rubber", "battery", "batteries",
	"cement", "concrete", "plutonium", "uranium", "arsenic", "cyanide",
	"antifreeze", "glue", "styrofoam", "toothpaste",
}

var (
	connectiveSet = toSet(connectives)
	ingredientSet = toSet(commonIngredients)
	nonFoodSet    = toSet(nonFood)
)

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// IsConnective reports whether word links parts of a dish name.
func IsConnective(word string) bool {
	_, ok := connectiveSet[word]
	return ok
}

// IsCommonIngredient reports whether word is a recognized ingredient.
func IsCommonIngredient(word string) bool {
	_, ok := ingredientSet[word]
	return ok
}

// IsNonFood reports whether word is on the non-food blocklist.
func IsNonFood(word string) bool {
	_, ok := nonFoodSet[word]
	return ok
}

// ContainsDishNoun reports whether the lowercased text contains a dish-type
// noun anywhere.
func ContainsDishNoun(text string) bool {
	return containsAny(text, dishNouns)
}

// ContainsFamousDish reports whether the lowercased text contains a known
// dish name.
func ContainsFamousDish(text string) bool {
	return containsAny(text, famousDishes)
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// ContainsNonFood reports whether any whitespace-separated word of the
// lowercased text is blocklisted.
func ContainsNonFood(text string) bool {
	for _, w := range strings.Fields(text) {
		if IsNonFood(strings.Trim(w, ".,;:!?\"'()")) {
			return true
		}
	}
	return false
}
