package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Preset is an ad-hoc service sold at the desk during a stay.
type Preset struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	// FreeText presets take the description and amount from the operator.
	FreeText bool `json:"free_text"`
}

const PresetOther = "other"

var presets = []Preset{
	{Code: "extra_bed", Description: "Extra bed", Amount: decimal.NewFromInt(300)},
	{Code: "charcoal", Description: "Charcoal", Amount: decimal.NewFromInt(50)},
	{Code: "grill", Description: "Grill rental", Amount: decimal.NewFromInt(150)},
	{Code: PresetOther, Description: "Other", FreeText: true},
}

func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

func PresetByCode(code string) (Preset, bool) {
	code = strings.TrimSpace(strings.ToLower(code))
	for _, p := range presets {
		if p.Code == code {
			return p, true
		}
	}
	return Preset{}, false
}
