package model

// Venue is the list shape of a market returned per category.
type Venue struct {
	ID        string  `json:"id" yaml:"id" validate:"required"`
	Name      string  `json:"name" yaml:"name" validate:"required"`
	Address   string  `json:"address" yaml:"address"`
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"longitude"`
}

// Position returns the venue location as a coordinate.
func (v Venue) Position() Coordinate {
	return Coordinate{Latitude: v.Latitude, Longitude: v.Longitude}
}

// Rule is a house rule attached to a venue's coupon offer.
type Rule struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description" validate:"required"`
}

// VenueDetail is the detail shape of a market.
type VenueDetail struct {
	Venue        `yaml:",inline"`
	Description  string `json:"description" yaml:"description"`
	CoverURL     string `json:"cover" yaml:"cover"`
	Phone        string `json:"phone,omitempty" yaml:"phone"`
	OpeningHours string `json:"openingHours,omitempty" yaml:"opening_hours"`
	WeekDays     string `json:"weekDays,omitempty" yaml:"week_days"`
	CategoryID   string `json:"categoryId" yaml:"category" validate:"required"`
	Rules        []Rule `json:"rules,omitempty" yaml:"rules" validate:"dive"`
	Coupons      int    `json:"coupons" yaml:"coupons" validate:"gte=0"`
}
