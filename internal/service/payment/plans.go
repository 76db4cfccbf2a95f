package payment

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

//go:embed config/plans.yaml
var plansYAML []byte

// Plan is a purchasable token package.
type Plan struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Tokens int     `yaml:"tokens" json:"tokens"`
	Price  float64 `yaml:"price" json:"price"`
}

type planFile struct {
	Plans []Plan `yaml:"plans"`
}

// LoadPlans parses the embedded plan catalog.
func LoadPlans() ([]Plan, error) {
	var f planFile
	if err := yaml.Unmarshal(plansYAML, &f); err != nil {
		return nil, fmt.Errorf("parsing plan catalog: %w", err)
	}
	if len(f.Plans) == 0 {
		return nil, fmt.Errorf("plan catalog is empty")
	}
	for _, p := range f.Plans {
		if p.ID == "" || p.Tokens <= 0 || p.Price <= 0 {
			return nil, fmt.Errorf("invalid plan %q in catalog", p.ID)
		}
	}
	return f.Plans, nil
}

// Volume discount thresholds. The two tiers stack, so the largest plan gets
// both cuts.
const (
	tierOneThreshold = 39.99
	tierTwoThreshold = 149.99
	tierDiscount     = 0.9
	firstBuyDiscount = 0.7
)

// FinalPrice applies volume discounts and the one-time first purchase
// discount, rounded to cents.
func FinalPrice(base float64, firstPurchase bool) float64 {
	price := base
	if base >= tierOneThreshold {
		price *= tierDiscount
	}
	if base >= tierTwoThreshold {
		price *= tierDiscount
	}
	if firstPurchase {
		price *= firstBuyDiscount
	}
	return math.Round(price*100) / 100
}
