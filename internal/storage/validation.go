package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/nearby/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrInvalidVenue = errors.New("invalid venue")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateCategory(c model.Category) error {
	if err := validateString(c.ID, "category id"); err != nil {
		return err
	}
	return validateString(c.Name, "category name")
}

func validateVenue(v model.VenueDetail) error {
	switch {
	case strings.TrimSpace(v.ID) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidVenue)
	case strings.TrimSpace(v.Name) == "":
		return fmt.Errorf("%w: missing name", ErrInvalidVenue)
	case strings.TrimSpace(v.CategoryID) == "":
		return fmt.Errorf("%w: missing category", ErrInvalidVenue)
	case v.Latitude < -90 || v.Latitude > 90:
		return fmt.Errorf("%w: latitude %f out of range", ErrInvalidVenue, v.Latitude)
	case v.Longitude < -180 || v.Longitude > 180:
		return fmt.Errorf("%w: longitude %f out of range", ErrInvalidVenue, v.Longitude)
	case v.Coupons < 0:
		return fmt.Errorf("%w: negative coupon count", ErrInvalidVenue)
	}
	return nil
}
