package models

// OnboardingData is the payload collected by the onboarding wizard. It is
// stored as JSONB on the profile until the final submission provisions the
// stockpile.
type OnboardingData struct {
	FullName        string              `json:"fullName"`
	Email           string              `json:"email"`
	Calibers        []OnboardingCaliber `json:"calibers"`
	Purposes        []OnboardingPurpose `json:"purposes"`
	MonthlyBudget   int                 `json:"monthlyBudget"`
	Frequency       string              `json:"frequency" example:"monthly"`
	ShippingTrigger ShippingTrigger     `json:"shippingTrigger"`
}

type OnboardingCaliber struct {
	ID         string `json:"id" example:"9mm"`
	Name       string `json:"name" example:"9mm Luger"`
	Selected   bool   `json:"selected"`
	Allocation int    `json:"allocation,omitempty"`
}

type OnboardingPurpose struct {
	ID       string `json:"id" example:"range"`
	Label    string `json:"label" example:"Range Shooting"`
	Selected bool   `json:"selected"`
}

// ShippingTrigger describes when accumulated rounds actually ship.
type ShippingTrigger struct {
	Type  string `json:"type" example:"round_count"`
	Value int    `json:"value,omitempty" example:"500"`
	Unit  string `json:"unit,omitempty" example:"rounds"`
}
