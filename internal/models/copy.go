package models

// CopyContent is the marketing copy block rendered into a page hero.
// The JSON field names match the AI assist wire format.
type CopyContent struct {
	Headline     string `json:"headline"`
	Subheadline  string `json:"subheadline"`
	PrimaryCTA   string `json:"primaryCta"`
	SecondaryCTA string `json:"secondaryCta"`
	CardTitle    string `json:"cardTitle"`
	CardNote     string `json:"cardNote"`
}

// Complete reports whether every field carries a value.
func (c CopyContent) Complete() bool {
	return c.Headline != "" && c.Subheadline != "" &&
		c.PrimaryCTA != "" && c.SecondaryCTA != "" &&
		c.CardTitle != "" && c.CardNote != ""
}
