package models

import "fmt"

// ViewState identifies the top-level view a visitor is looking at
type ViewState string

const (
	ViewHome          ViewState = "HOME"
	ViewPlacementTest ViewState = "PLACEMENT_TEST"
	ViewRegister      ViewState = "REGISTER"
	ViewAbout         ViewState = "ABOUT"
	ViewAdmin         ViewState = "ADMIN"
)

// Views returns every view in menu order
func Views() []ViewState {
	return []ViewState{ViewHome, ViewPlacementTest, ViewRegister, ViewAbout, ViewAdmin}
}

// Valid reports whether v is one of the known views
func (v ViewState) Valid() bool {
	switch v {
	case ViewHome, ViewPlacementTest, ViewRegister, ViewAbout, ViewAdmin:
		return true
	}
	return false
}

// ParseView converts a raw tag into a ViewState
func ParseView(raw string) (ViewState, error) {
	v := ViewState(raw)
	if !v.Valid() {
		return "", fmt.Errorf("unknown view: %q", raw)
	}
	return v, nil
}
