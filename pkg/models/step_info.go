package models

// StepInfo is the UI-facing catalog entry for one registered step.
type StepInfo struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	ExternalCompatible bool     `json:"external_compatible"`
	RequiredServices   []string `json:"required_services"`
	RequiredPaths      []string `json:"required_paths"`
	IsLegacy           bool     `json:"is_legacy"`
}
