// Package fixtures loads and validates the YAML catalog used to seed the
// development backend.
package fixtures

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/service"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// File is a fixture document.
type File struct {
	Categories []model.Category    `yaml:"categories" validate:"required,min=1,dive"`
	Venues     []model.VenueDetail `yaml:"markets" validate:"dive"`
}

// Len returns the number of records the file seeds.
func (f *File) Len() int {
	return len(f.Categories) + len(f.Venues)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Default returns the bundled catalog.
func Default() (*File, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads and validates a fixture file.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

// Load decodes and validates a fixture document. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty fixture document", common.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate checks field rules, unique ids and that every market points at
// a known category.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	categories := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		if categories[c.ID] {
			return fmt.Errorf("%w: duplicate category %q", common.ErrDuplicateEntry, c.ID)
		}
		categories[c.ID] = true
	}

	venues := make(map[string]bool, len(f.Venues))
	for _, v := range f.Venues {
		if venues[v.ID] {
			return fmt.Errorf("%w: duplicate market %q", common.ErrDuplicateEntry, v.ID)
		}
		venues[v.ID] = true

		if !categories[v.CategoryID] {
			return fmt.Errorf("%w: market %q references unknown category %q", common.ErrInvalidConfig, v.ID, v.CategoryID)
		}
	}
	return nil
}

// Seed writes the file into store. progress, if set, is called after each
// saved record.
func Seed(ctx context.Context, store service.Store, file *File, progress func()) error {
	step := func() {
		if progress != nil {
			progress()
		}
	}

	for _, c := range file.Categories {
		if err := store.SaveCategory(ctx, c); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.ID, err)
		}
		step()
	}

	for _, v := range file.Venues {
		if err := store.SaveVenue(ctx, v); err != nil {
			return fmt.Errorf("failed to seed market %q: %w", v.ID, err)
		}
		step()
	}
	return nil
}
