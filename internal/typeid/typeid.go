// Package typeid issues the prefixed, sortable ids used for charts, scene
// elements and stored snapshots.
package typeid

import (
	"errors"
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixChart    = "chart"
	PrefixElement  = "el"
	PrefixSnapshot = "snap"
)

var ErrInvalidID = errors.New("invalid id")

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewChartID() string    { return New(PrefixChart) }
func NewElementID() string  { return New(PrefixElement) }
func NewSnapshotID() string { return New(PrefixSnapshot) }

// Validate reports ErrInvalidID unless id parses as a typeid carrying
// expectedPrefix.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("%w %q: want prefix %q, got %q", ErrInvalidID, id, expectedPrefix, parsed.Prefix())
	}
	return nil
}

func ValidateChartID(id string) error { return Validate(id, PrefixChart) }
