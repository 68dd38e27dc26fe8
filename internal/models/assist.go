package models

import "encoding/json"

// AI enhancement modes reported by the assist endpoint and the client.
const (
	ModeOpenAI        = "openai"
	ModeClaude        = "claude"
	ModeConfigMissing = "config_missing"
	ModeError         = "error"
	ModeFallback      = "fallback"
)

// AssistRequest is the body posted to the AI assist endpoint.
type AssistRequest struct {
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Style    string `json:"style"`
	Theme    string `json:"theme"`
	Accent   string `json:"accent"`
}

// AssistRequestFor builds the assist request for a payload.
func AssistRequestFor(p GenerationPayload) AssistRequest {
	return AssistRequest{
		Brand:    p.Brand,
		Category: p.Category,
		Style:    p.Style,
		Theme:    string(p.Theme),
		Accent:   p.Accent,
	}
}

// AssistResponse is the assist endpoint's reply. Copy stays raw so the
// client can normalize whatever shape the server sent.
type AssistResponse struct {
	OK      bool            `json:"ok"`
	Mode    string          `json:"mode"`
	Message string          `json:"message,omitempty"`
	Copy    json.RawMessage `json:"copy,omitempty"`
}
