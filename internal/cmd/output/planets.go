package output

import (
	"io"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/planets/pkg/planets"
)

var titler = cases.Title(language.English)

// PlanetTable renders planets as table rows in the order given.
type PlanetTable []planets.Planet

// TableData implements Tabular.
func (t PlanetTable) TableData() Data {
	rows := make([][]string, 0, len(t))
	for _, p := range t {
		rows = append(rows, []string{
			p.Name,
			formatFloat(p.Radius),
			formatFloat(p.DistanceToSun),
		})
	}
	return Data{
		Headers:         headers("name", "radius (km)", "distance to sun (mkm)"),
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight},
	}
}

// DistanceResult is the output of a distance query.
type DistanceResult struct {
	From     string  `json:"from" yaml:"from"`
	To       string  `json:"to" yaml:"to"`
	Distance float64 `json:"distance" yaml:"distance"`
}

// TableData implements Tabular.
func (d DistanceResult) TableData() Data {
	return Data{
		Headers:         headers("from", "to", "distance (mkm)"),
		Rows:            [][]string{{d.From, d.To, formatFloat(d.Distance)}},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

// Write formats v to w. Tabular values are emitted as plain data for the
// structured formats.
func Write(w io.Writer, format Format, v any) error {
	if format != FormatTable && format != "" {
		if pt, ok := v.(PlanetTable); ok {
			v = []planets.Planet(pt)
		}
	}
	return NewFormatter(format).Format(w, v)
}

func headers(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = titler.String(n)
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
