// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package workspace holds the generator's interaction logic. Each user
// command is a function from the current State and its input to a new
// State and a list of Effects; Session applies those effects to the state
// store, the preview controller, and the network.
package workspace

import (
	"webtg/internal/aiclient"
	"webtg/internal/export"
	"webtg/internal/models"
)

// StatusKind styles a status message.
type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusWarn    StatusKind = "warn"
	StatusError   StatusKind = "error"
)

// Status is the one-line message shown under the generator controls.
type Status struct {
	Text string     `json:"text"`
	Kind StatusKind `json:"kind"`
}

// Selection is the current form state of the generator.
type Selection struct {
	TemplateID string `json:"templateId"`
	Category   string `json:"category"`
	Style      string `json:"style"`
	Query      string `json:"query"`
	Theme      string `json:"theme"`
	Accent     string `json:"accent"`
	Brand      string `json:"brand"`
	Pages      int    `json:"pages"`
}

// State is everything the generator page knows between commands.
type State struct {
	Selection   Selection             `json:"selection"`
	PalettePick *models.Palette       `json:"palettePick,omitempty"`
	AICopy      *models.CopyContent   `json:"aiCopy,omitempty"`
	Last        *models.GeneratedSite `json:"-"`
	Saved       []models.SavedEntry   `json:"-"`
	Enhancing   bool                  `json:"enhancing"`
	CanDownload bool                  `json:"canDownload"`
	Status      Status                `json:"status"`
}

// Effect is a side effect requested by a command.
type Effect interface {
	effect()
}

// SetStatus replaces the status line.
type SetStatus struct{ Status Status }

// ShowPreview renders a site into the preview frame.
type ShowPreview struct{ Site *models.GeneratedSite }

// ShowIdle clears the preview frame and shows the idle prompt.
type ShowIdle struct{}

// StoreLast persists the last generated site.
type StoreLast struct{ Site *models.GeneratedSite }

// StoreSaved persists the saved-templates list.
type StoreSaved struct{ Entries []models.SavedEntry }

// EnableDownload unlocks the download action.
type EnableDownload struct{}

// DownloadFiles hands files to the browser, staggered by each file's Delay.
type DownloadFiles struct{ Files []export.File }

// RequestEnhancement asks the AI enhancement client for copy.
type RequestEnhancement struct{ Payload models.GenerationPayload }

// EnhancementApplied reports the outcome mode of a finished enhancement.
type EnhancementApplied struct{ Result aiclient.Result }

func (SetStatus) effect()          {}
func (ShowPreview) effect()        {}
func (ShowIdle) effect()           {}
func (StoreLast) effect()          {}
func (StoreSaved) effect()         {}
func (EnableDownload) effect()     {}
func (DownloadFiles) effect()      {}
func (RequestEnhancement) effect() {}
func (EnhancementApplied) effect() {}

func status(kind StatusKind, text string) SetStatus {
	return SetStatus{Status: Status{Text: text, Kind: kind}}
}
