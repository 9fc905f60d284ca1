package server

import (
	"github.com/windwardaviation/rescue10-aar/internal/config"
	"github.com/windwardaviation/rescue10-aar/internal/session"
)

type healthResponse struct {
	Body map[string]string `json:"body"`
}

type successBody struct {
	Success bool `json:"success"`
}

type submitResponse struct {
	Body successBody `json:"body"`
}

// CatalogBody is the static form configuration exposed to the presentation layer.
type CatalogBody struct {
	Product    string           `json:"product"`
	ShortName  string           `json:"shortName"`
	Recipients []string         `json:"recipients"`
	Sections   []config.Section `json:"sections"`
}

type catalogResponse struct {
	Body CatalogBody `json:"body"`
}

type sessionResponse struct {
	Body session.View `json:"body"`
}

// StepBody is a session view plus whether the last navigation actually moved.
type StepBody struct {
	session.View
	Moved bool `json:"moved"`
}

type stepResponse struct {
	Body StepBody `json:"body"`
}

// UpdateFieldRequest sets one scalar report field.
type UpdateFieldRequest struct {
	Field string `json:"field" enum:"date,pilotName,hoistOperator,crewMembers"`
	Value string `json:"value"`
}

// UpdateSectionRequest replaces the note text for one section.
type UpdateSectionRequest struct {
	Text string `json:"text"`
}

// GoToRequest jumps to a step; used by the review screen's Edit links.
type GoToRequest struct {
	Step int `json:"step" minimum:"0"`
}
