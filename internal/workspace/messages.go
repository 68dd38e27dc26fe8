package workspace

import "strings"

const (
	msgIdle              = "Select a template and click Generate."
	msgRestored          = "Last generated template restored."
	msgNothingToSave     = "Generate a template first, then save it."
	msgDuplicate         = "Same configuration is already saved."
	msgSaved             = "Saved to My Templates."
	msgNothingToDownload = "Generate a template before downloading."
	msgEnhancing         = "Generating AI copy for preview..."
	msgEnhanceBusy       = "AI enhancement already running."
	msgEnhanced          = "AI enhancement applied to preview."
	msgConfigMissing     = "OpenAI key missing. Set OPENAI_API_KEY on the server or save a key in settings."
	msgStaleEnhancement  = "Selections changed while AI was working. Enhancement discarded."
	msgBadPalette        = "Pick a palette with three valid colors."
	msgNoTemplates       = "No templates match these filters."
	msgSavedMissing      = "Saved template not found."
	msgSavedRemoved      = "Saved template removed."
	msgSavedCleared      = "All saved templates cleared."
)

// aiErrorMessage turns provider error text into user-facing guidance.
func aiErrorMessage(raw string) string {
	msg := strings.ToLower(raw)
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing"):
		return "OpenAI quota/billing limit reached. Add credits, then retry AI Enhance."
	case strings.Contains(msg, "invalid api key") || strings.Contains(msg, "incorrect api key"):
		return "Invalid OpenAI API key. Update OPENAI_API_KEY and retry."
	case strings.Contains(msg, "rate limit"):
		return "OpenAI rate limit hit. Wait a few seconds and retry."
	}
	if raw == "" {
		return "request failed"
	}
	return raw
}
