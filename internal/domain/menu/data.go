// internal/domain/menu/data.go
package menu

import "github.com/your-org/saltbee-gateway/internal/infrastructure/backend"

// Category is a menu category with its display labels
type Category struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Korean string `json:"korean"`
}

// Categories returns the fixed category list used by the menu view
func Categories() []Category {
	return []Category{
		{Value: "all", Label: "All Dishes", Korean: "전체"},
		{Value: "bbq", Label: "BBQ & Grill", Korean: "구이"},
		{Value: "rice", Label: "Rice Bowls", Korean: "밥"},
		{Value: "noodles", Label: "Noodles", Korean: "면"},
		{Value: "soups", Label: "Soups & Stews", Korean: "찌개"},
		{Value: "appetizers", Label: "Appetizers", Korean: "전채"},
		{Value: "sides", Label: "Sides", Korean: "반찬"},
	}
}

// fallbackMenuItems is served when the backend menu is unreachable and no
// cached copy exists. Prices are in cents.
var fallbackMenuItems = []backend.MenuItem{
	{
		ID:          "bibimbap",
		Name:        "Stone Pot Bibimbap",
		Korean:      "돌솥비빔밥",
		Description: "Sizzling stone pot rice topped with seasoned vegetables, beef, fried egg, and gochujang sauce.",
		Price:       1699,
		Image:       "/assets/food-bibimbap.jpg",
		Category:    "rice",
		Popular:     true,
		Spicy:       true,
	},
	{
		ID:          "bulgogi",
		Name:        "Bulgogi",
		Korean:      "불고기",
		Description: "Thinly sliced marinated beef, grilled to perfection. Served with lettuce wraps and banchan.",
		Price:       1999,
		Image:       "/assets/food-bulgogi.jpg",
		Category:    "bbq",
		Popular:     true,
	},
	{
		ID:          "kimchi-jjigae",
		Name:        "Kimchi Jjigae",
		Korean:      "김치찌개",
		Description: "Hearty kimchi stew with pork belly, tofu, and aged kimchi in a rich, spicy broth.",
		Price:       1499,
		Image:       "/assets/food-kimchi-jjigae.jpg",
		Category:    "soups",
		Spicy:       true,
		Popular:     true,
	},
	{
		ID:          "japchae",
		Name:        "Japchae",
		Korean:      "잡채",
		Description: "Sweet potato glass noodles stir-fried with vegetables, beef, and sesame oil.",
		Price:       1599,
		Image:       "/assets/food-japchae.jpg",
		Category:    "noodles",
	},
	{
		ID:          "tteokbokki",
		Name:        "Tteokbokki",
		Korean:      "떡볶이",
		Description: "Chewy rice cakes in a sweet and spicy gochujang sauce with fish cakes.",
		Price:       1299,
		Image:       "/assets/food-tteokbokki.jpg",
		Category:    "appetizers",
		Spicy:       true,
		Popular:     true,
	},
	{
		ID:          "galbi",
		Name:        "Galbi",
		Korean:      "갈비",
		Description: "Grilled marinated short ribs, caramelized with a sweet soy glaze. A house specialty.",
		Price:       2899,
		Image:       "/assets/food-galbi.jpg",
		Category:    "bbq",
		Popular:     true,
	},
	{
		ID:          "sundubu",
		Name:        "Sundubu Jjigae",
		Korean:      "순두부찌개",
		Description: "Silky soft tofu stew with seafood, vegetables, and egg in a spicy broth.",
		Price:       1499,
		Image:       "/assets/food-sundubu.jpg",
		Category:    "soups",
		Spicy:       true,
	},
	{
		ID:          "chicken",
		Name:        "Korean Fried Chicken",
		Korean:      "양념치킨",
		Description: "Double-fried crispy chicken wings glazed with sweet and spicy gochujang sauce.",
		Price:       1599,
		Image:       "/assets/food-chicken.jpg",
		Category:    "appetizers",
		Spicy:       true,
		Popular:     true,
	},
	{
		ID:          "pajeon",
		Name:        "Haemul Pajeon",
		Korean:      "해물파전",
		Description: "Crispy seafood and green onion pancake served with soy dipping sauce.",
		Price:       1399,
		Image:       "/assets/food-pajeon.jpg",
		Category:    "appetizers",
	},
	{
		ID:          "naengmyeon",
		Name:        "Naengmyeon",
		Korean:      "냉면",
		Description: "Chilled buckwheat noodles in icy beef broth with cucumber, egg, and Asian pear.",
		Price:       1499,
		Image:       "/assets/food-naengmyeon.jpg",
		Category:    "noodles",
	},
	{
		ID:          "mandu",
		Name:        "Mandu",
		Korean:      "만두",
		Description: "Handmade Korean dumplings, pan-fried golden. Stuffed with pork and vegetables.",
		Price:       1199,
		Image:       "/assets/food-mandu.jpg",
		Category:    "appetizers",
	},
	{
		ID:          "banchan",
		Name:        "Banchan Set",
		Korean:      "반찬",
		Description: "Assorted traditional Korean side dishes including kimchi, pickled radish, and spinach.",
		Price:       899,
		Image:       "/assets/food-banchan.jpg",
		Category:    "sides",
		Vegetarian:  true,
	},
}
