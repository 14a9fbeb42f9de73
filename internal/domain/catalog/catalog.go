package catalog

import "time"

// Static configuration for the coin economy. Everything in this package is
// fixed at build time; nothing here is user-owned or mutated at runtime.

const (
	// AdRewardCoins is granted per successful ad watch.
	AdRewardCoins = 5
	// AdRewardCooldown is the minimum gap between ad-reward redemptions.
	AdRewardCooldown = time.Hour
)

type CoinPackage struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Coins     int     `json:"coins"`
	Bonus     int     `json:"bonus"`
	Price     float64 `json:"price"`
	IsPopular bool    `json:"is_popular"`
	// PriceRef is the external payment provider's price reference.
	PriceRef string `json:"price_ref"`
}

var coinPackages = []CoinPackage{
	{ID: "starter", Name: "Starter", Coins: 100, Bonus: 0, Price: 4.99, PriceRef: "price_starter"},
	{ID: "popular", Name: "Popular", Coins: 500, Bonus: 50, Price: 19.99, IsPopular: true, PriceRef: "price_popular"},
	{ID: "pro", Name: "Pro", Coins: 1200, Bonus: 200, Price: 39.99, PriceRef: "price_pro"},
	{ID: "ultimate", Name: "Ultimate", Coins: 3000, Bonus: 800, Price: 89.99, PriceRef: "price_ultimate"},
}

func Packages() []CoinPackage {
	out := make([]CoinPackage, len(coinPackages))
	copy(out, coinPackages)
	return out
}

func PackageByID(id string) (CoinPackage, bool) {
	for _, p := range coinPackages {
		if p.ID == id {
			return p, true
		}
	}
	return CoinPackage{}, false
}

// toolCosts maps a tool identifier to its coin cost. A tool missing from this
// table is treated as free by the ledger, so every chargeable tool must have
// an entry here.
var toolCosts = map[string]int{
	"ai-image-generation": 10,
	"bg-remove":           5,
	"gen-fill":            15,
	"expand":              8,
	"resize":              3,
	"text-to-video":       20,
	"image-to-video":      15,
	"motion-brush":        10,
	"lipsync":             12,
	"market-analyst":      25,
	"trend-catcher":       20,
	"indicator-creator":   15,
	"trading-signal":      18,
	"ai-chat":             5,
}

func ToolCost(toolID string) (int, bool) {
	cost, ok := toolCosts[toolID]
	return cost, ok
}

// conversionCosts maps a premium duration in days to its coin cost.
var conversionCosts = map[int]int{
	1:  100,
	3:  250,
	7:  500,
	30: 1800,
}

func ConversionCost(days int) (int, bool) {
	cost, ok := conversionCosts[days]
	return cost, ok
}
