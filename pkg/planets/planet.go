// Package planets defines the Planet record served by the planets service,
// the name normalization rule shared by every layer, and the built-in seed
// catalog.
package planets

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/planets/pkg/errors"
)

// InvalidDataMessage is reported when a record has a non-positive radius or
// distance to the sun.
const InvalidDataMessage = "Radius and distanceToSun must be positive numbers."

// NameRequiredMessage is reported when a name is missing or blank.
const NameRequiredMessage = "Planet name is required."

// Planet is a planetary body. Values are plain data and are always passed
// and returned by value.
type Planet struct {
	Name          string  `json:"name" yaml:"name"`                   // Display name, normalized on write
	Radius        float64 `json:"radius" yaml:"radius"`               // Mean radius in kilometres
	DistanceToSun float64 `json:"distanceToSun" yaml:"distanceToSun"` // Mean distance to the sun in millions of kilometres
}

// NormalizeName returns name with its first character upper-cased and the
// remainder lower-cased, so "EARTH", "earth" and "Earth" all map to "Earth".
func NormalizeName(name string) string {
	if name == "" {
		return name
	}
	first, size := utf8.DecodeRuneInString(name)
	head := name[:size]
	if first != utf8.RuneError || size != 1 {
		head = cases.Upper(language.Und).String(head)
	}
	tail := cases.Lower(language.Und).String(name[size:])

	var b strings.Builder
	b.Grow(len(head) + len(tail))
	b.WriteString(head)
	b.WriteString(tail)
	return b.String()
}

// Normalized returns a copy of p with its name normalized.
func (p Planet) Normalized() Planet {
	p.Name = NormalizeName(p.Name)
	return p
}

// Key returns the storage key for p.
func (p Planet) Key() string {
	return NormalizeName(p.Name)
}

// Validate checks that radius and distance to the sun are both positive.
// NaN fails both comparisons and is rejected as well.
func (p Planet) Validate() error {
	if !(p.Radius > 0) {
		return errors.NewValidationError("radius", p.Radius, InvalidDataMessage)
	}
	if !(p.DistanceToSun > 0) {
		return errors.NewValidationError("distanceToSun", p.DistanceToSun, InvalidDataMessage)
	}
	return nil
}
