package model

// Category groups venues on the discovery screen. Identity is the ID.
type Category struct {
	ID     string `json:"id" yaml:"id" validate:"required"`
	Name   string `json:"name" yaml:"name" validate:"required"`
	IconID string `json:"iconId,omitempty" yaml:"icon"`
}
