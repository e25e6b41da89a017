package models

// SubscriptionTier is one of the fixed plans a customer can subscribe to.
// The Stripe price ID for each tier comes from the environment at startup, so
// the catalog itself carries no billing identifiers.
type SubscriptionTier struct {
	ID          string   `json:"id" example:"standard"`
	Name        string   `json:"name" example:"Standard"`
	Price       int      `json:"price" example:"100"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular,omitempty"`
}

type Caliber struct {
	ID          string `json:"id" example:"9mm"`
	Name        string `json:"name" example:"9mm Luger"`
	Description string `json:"description"`
}

type UseCase struct {
	ID          string `json:"id" example:"range"`
	Name        string `json:"name" example:"Range Shooting"`
	Description string `json:"description"`
}

var SubscriptionTiers = []SubscriptionTier{
	{
		ID:          "basic",
		Name:        "Basic",
		Price:       50,
		Description: "Start building your stockpile",
		Features:    []string{"Up to 2 calibers", "Bi-weekly or monthly", "Basic support"},
	},
	{
		ID:          "standard",
		Name:        "Standard",
		Price:       100,
		Description: "For regular shooters",
		Features:    []string{"Up to 4 calibers", "Monthly shipments", "Priority support"},
		Popular:     true,
	},
	{
		ID:          "heavy",
		Name:        "Heavy",
		Price:       200,
		Description: "For serious enthusiasts",
		Features:    []string{"Unlimited calibers", "Weekly or bi-weekly", "24/7 support", "Free shipping"},
	},
}

var PopularCalibers = []Caliber{
	{ID: "9mm", Name: "9mm Luger", Description: "The most popular handgun caliber"},
	{ID: "223", Name: ".223 Remington", Description: "Popular AR-15 caliber"},
	{ID: "556", Name: "5.56x45mm NATO", Description: "Standard NATO rifle round"},
	{ID: "45acp", Name: ".45 ACP", Description: "Classic handgun caliber"},
	{ID: "308", Name: ".308 Winchester", Description: "Popular hunting and precision round"},
	{ID: "762x39", Name: "7.62x39mm", Description: "AK-47 platform standard"},
	{ID: "40sw", Name: ".40 S&W", Description: "Law enforcement favorite"},
	{ID: "12ga", Name: "12 Gauge", Description: "Versatile shotgun shell"},
	{ID: "300blk", Name: "300 Blackout", Description: "Great for suppressed fire"},
	{ID: "6arc", Name: "6mm ARC", Description: "Modern precision round"},
}

var UseCases = []UseCase{
	{ID: "range", Name: "Range Shooting", Description: "Regular target practice"},
	{ID: "defense", Name: "Home Defense", Description: "Personal and home protection"},
	{ID: "hunting", Name: "Hunting", Description: "Big game and varmint"},
	{ID: "competition", Name: "Competition", Description: "Sport shooting events"},
}

// TierByID returns the tier with the given ID, or nil when unknown.
func TierByID(id string) *SubscriptionTier {
	for i := range SubscriptionTiers {
		if SubscriptionTiers[i].ID == id {
			return &SubscriptionTiers[i]
		}
	}
	return nil
}
