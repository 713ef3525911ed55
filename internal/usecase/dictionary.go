package usecase

import "github.com/wardrobe/backend/internal/domain"

// dictionaryEntry maps a lower-case surface keyword onto a canonical attribute
type dictionaryEntry struct {
	keyword   string
	attribute domain.Attribute
}

// dictionary is an ordered keyword table. Order is significant: category
// resolution returns the first entry whose keyword occurs in the text.
type dictionary []dictionaryEntry

func attr(name string, id int, confidence float64) domain.Attribute {
	return domain.Attribute{Name: name, ID: id, Confidence: confidence}
}

// Canonical category attributes
var (
	catDress    = attr("dress", 1, 0.9)
	catShirt    = attr("shirt", 2, 0.85)
	catPants    = attr("pants", 3, 0.85)
	catJacket   = attr("jacket", 4, 0.85)
	catCoat     = attr("coat", 5, 0.85)
	catSkirt    = attr("skirt", 6, 0.9)
	catSweater  = attr("sweater", 7, 0.85)
	catShorts   = attr("shorts", 8, 0.9)
	catShoes    = attr("shoes", 9, 0.85)
	catBag      = attr("bag", 10, 0.8)
	catScarf    = attr("scarf", 11, 0.9)
	catJumpsuit = attr("jumpsuit", 12, 0.9)
)

// categoryDictionary is scanned first-match-wins in this order
var categoryDictionary = dictionary{
	{"dress", catDress},
	{"gown", catDress},
	{"blouse", catShirt},
	{"shirt", catShirt},
	{"polo", catShirt},
	{"jeans", catPants},
	{"trousers", catPants},
	{"pants", catPants},
	{"chinos", catPants},
	{"slacks", catPants},
	{"blazer", catJacket},
	{"jacket", catJacket},
	{"bomber", catJacket},
	{"overcoat", catCoat},
	{"trench", catCoat},
	{"parka", catCoat},
	{"coat", catCoat},
	{"skirt", catSkirt},
	{"sweater", catSweater},
	{"cardigan", catSweater},
	{"pullover", catSweater},
	{"jumper", catSweater},
	{"hoodie", catSweater},
	{"shorts", catShorts},
	{"sneakers", catShoes},
	{"boots", catShoes},
	{"loafers", catShoes},
	{"sandals", catShoes},
	{"heels", catShoes},
	{"shoes", catShoes},
	{"handbag", catBag},
	{"tote", catBag},
	{"clutch", catBag},
	{"backpack", catBag},
	{"purse", catBag},
	{"scarf", catScarf},
	{"shawl", catScarf},
	{"jumpsuit", catJumpsuit},
	{"romper", catJumpsuit},
}

var (
	colBlack  = attr("black", 1, 0.95)
	colWhite  = attr("white", 2, 0.95)
	colNavy   = attr("navy", 3, 0.9)
	colBlue   = attr("blue", 4, 0.9)
	colRed    = attr("red", 5, 0.9)
	colGreen  = attr("green", 6, 0.9)
	colGrey   = attr("grey", 7, 0.9)
	colBeige  = attr("beige", 8, 0.85)
	colBrown  = attr("brown", 9, 0.9)
	colPink   = attr("pink", 10, 0.9)
	colYellow = attr("yellow", 11, 0.9)
	colPurple = attr("purple", 12, 0.85)
	colOrange = attr("orange", 13, 0.9)
	colCream  = attr("cream", 14, 0.85)
	colBurg   = attr("burgundy", 15, 0.85)
	colOlive  = attr("olive", 16, 0.85)
)

var colorDictionary = dictionary{
	{"black", colBlack},
	{"white", colWhite},
	{"ivory", colWhite},
	{"navy", colNavy},
	{"blue", colBlue},
	{"red", colRed},
	{"green", colGreen},
	{"grey", colGrey},
	{"gray", colGrey},
	{"charcoal", colGrey},
	{"beige", colBeige},
	{"camel", colBeige},
	{"khaki", colBeige},
	{"brown", colBrown},
	{"chocolate", colBrown},
	{"pink", colPink},
	{"blush", colPink},
	{"yellow", colYellow},
	{"mustard", colYellow},
	{"purple", colPurple},
	{"lilac", colPurple},
	{"orange", colOrange},
	{"cream", colCream},
	{"burgundy", colBurg},
	{"maroon", colBurg},
	{"olive", colOlive},
}

var (
	fabCotton    = attr("cotton", 1, 0.9)
	fabWool      = attr("wool", 2, 0.9)
	fabSilk      = attr("silk", 3, 0.9)
	fabLinen     = attr("linen", 4, 0.9)
	fabDenim     = attr("denim", 5, 0.95)
	fabLeather   = attr("leather", 6, 0.9)
	fabCashmere  = attr("cashmere", 7, 0.9)
	fabPolyester = attr("polyester", 8, 0.85)
	fabSuede     = attr("suede", 9, 0.9)
	fabVelvet    = attr("velvet", 10, 0.9)
	fabSatin     = attr("satin", 11, 0.85)
	fabViscose   = attr("viscose", 12, 0.85)
	fabNylon     = attr("nylon", 13, 0.85)
	fabElastane  = attr("elastane", 14, 0.8)
	fabTweed     = attr("tweed", 15, 0.9)
)

var fabricDictionary = dictionary{
	{"cotton", fabCotton},
	{"wool", fabWool},
	{"merino", fabWool},
	{"silk", fabSilk},
	{"linen", fabLinen},
	{"denim", fabDenim},
	{"leather", fabLeather},
	{"cashmere", fabCashmere},
	{"polyester", fabPolyester},
	{"suede", fabSuede},
	{"velvet", fabVelvet},
	{"satin", fabSatin},
	{"viscose", fabViscose},
	{"rayon", fabViscose},
	{"nylon", fabNylon},
	{"elastane", fabElastane},
	{"spandex", fabElastane},
	{"tweed", fabTweed},
}

var (
	styCasual     = attr("casual", 1, 0.7)
	styFormal     = attr("formal", 2, 0.75)
	styVintage    = attr("vintage", 3, 0.8)
	styBohemian   = attr("bohemian", 4, 0.75)
	stySporty     = attr("sporty", 5, 0.7)
	styMinimalist = attr("minimalist", 6, 0.7)
	styStreetwear = attr("streetwear", 7, 0.75)
	styOversized  = attr("oversized", 8, 0.8)
	styFitted     = attr("fitted", 9, 0.75)
	styClassic    = attr("classic", 10, 0.7)
)

var styleDictionary = dictionary{
	{"casual", styCasual},
	{"formal", styFormal},
	{"evening", styFormal},
	{"vintage", styVintage},
	{"retro", styVintage},
	{"bohemian", styBohemian},
	{"boho", styBohemian},
	{"sporty", stySporty},
	{"athletic", stySporty},
	{"minimalist", styMinimalist},
	{"streetwear", styStreetwear},
	{"oversized", styOversized},
	{"slim fit", styFitted},
	{"tailored", styFitted},
	{"fitted", styFitted},
	{"classic", styClassic},
}

// first returns the first entry whose keyword occurs in text
func (d dictionary) first(text string) (domain.Attribute, bool) {
	for _, e := range d {
		if containsKeyword(text, e.keyword) {
			return e.attribute, true
		}
	}
	return domain.Attribute{}, false
}

// all returns every entry whose keyword occurs in text, in dictionary order.
// Canonical names reached through several keywords are not deduplicated.
func (d dictionary) all(text string) []domain.Attribute {
	matches := make([]domain.Attribute, 0)
	for _, e := range d {
		if containsKeyword(text, e.keyword) {
			matches = append(matches, e.attribute)
		}
	}
	return matches
}
