package entities

import "fmt"

// XP conversion and cashout rules
const (
	// XPToUSDRate is the number of XP worth one US dollar, so one XP is one cent
	XPToUSDRate = 100

	// MinCashoutXP is the smallest amount of XP that can be cashed out ($10)
	MinCashoutXP int64 = 1000

	// CashoutFeePercent is the house fee taken from every cashout
	CashoutFeePercent int64 = 10
)

// XPPackage is a purchasable bundle of XP
type XPPackage struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	XPAmount int64  `json:"xpAmount" yaml:"xpAmount"`
	Price    string `json:"price" yaml:"price"`
	Currency string `json:"currency" yaml:"currency"`
	Bonus    int    `json:"bonus" yaml:"bonus"` // percentage bonus over the base rate
	Popular  bool   `json:"popular,omitempty" yaml:"popular,omitempty"`
}

// DefaultXPPackages is the package store offered to players
var DefaultXPPackages = []XPPackage{
	{ID: "starter", Name: "Starter Pack", XPAmount: 500, Price: "5", Currency: "USDC", Bonus: 0},
	{ID: "popular", Name: "Popular Pack", XPAmount: 1100, Price: "10", Currency: "USDC", Bonus: 10, Popular: true},
	{ID: "premium", Name: "Premium Pack", XPAmount: 3000, Price: "25", Currency: "USDC", Bonus: 20},
	{ID: "whale", Name: "Whale Pack", XPAmount: 7500, Price: "50", Currency: "USDC", Bonus: 50},
}

// FindXPPackage looks up a package by ID
func FindXPPackage(id string) (XPPackage, error) {
	for _, pkg := range DefaultXPPackages {
		if pkg.ID == id {
			return pkg, nil
		}
	}
	return XPPackage{}, fmt.Errorf("%w: %s", ErrUnknownPackage, id)
}

// XPToUSDCents converts XP to US cents
func XPToUSDCents(xp int64) int64 {
	return xp * 100 / XPToUSDRate
}

// USDCentsToXP converts US cents to XP
func USDCentsToXP(cents int64) int64 {
	return cents * XPToUSDRate / 100
}

// FormatUSDCents renders cents as a dollar string such as "$12.34"
func FormatUSDCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// CashoutQuote is the dollar value of an XP cashout after the house fee
type CashoutQuote struct {
	XP         int64 `json:"xp"`
	GrossCents int64 `json:"grossCents"`
	FeeCents   int64 `json:"feeCents"`
	NetCents   int64 `json:"netCents"`
}
