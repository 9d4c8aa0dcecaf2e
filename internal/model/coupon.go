package model

// Coupon is the result of a successful redemption. Code is opaque to the client.
type Coupon struct {
	Code string `json:"coupon"`
}
