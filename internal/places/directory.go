// Package places resolves free-text place names to known centers.
package places

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/hfn-events/event-report-bot/internal/model"
	"github.com/hfn-events/event-report-bot/pkg/metrics"
)

// DefaultThreshold is the minimum similarity accepted for a fuzzy match.
const DefaultThreshold = 0.8

//go:embed centers.yaml
var embeddedCenters []byte

type centerEntry struct {
	City    string   `yaml:"city"`
	Zone    string   `yaml:"zone"`
	Country string   `yaml:"country"`
	Aliases []string `yaml:"aliases"`
}

type countryEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type catalog struct {
	Countries []countryEntry `yaml:"countries"`
	Centers   []centerEntry  `yaml:"centers"`
}

// index maps folded names (canonical and aliases) to an entry position.
type index struct {
	keys    []string
	targets []int
}

func (ix *index) add(name string, target int) {
	key := fold(name)
	if key == "" {
		return
	}
	ix.keys = append(ix.keys, key)
	ix.targets = append(ix.targets, target)
}

// Directory is an in-memory catalog of centers and countries.
type Directory struct {
	centers   []centerEntry
	countries []countryEntry
	cityIdx   index
	countryIx index
	threshold float64
}

// Default returns the directory built from the embedded center list.
func Default(threshold float64) (*Directory, error) {
	return Load(bytes.NewReader(embeddedCenters), threshold)
}

// LoadFile reads a YAML center list from path.
func LoadFile(path string, threshold float64) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open places file: %w", err)
	}
	defer f.Close()
	return Load(f, threshold)
}

// Load reads a YAML center list.
func Load(r io.Reader, threshold float64) (*Directory, error) {
	var c catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode places: %w", err)
	}
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	d := &Directory{
		centers:   c.Centers,
		countries: c.Countries,
		threshold: threshold,
	}
	for i, ce := range c.Centers {
		d.cityIdx.add(ce.City, i)
		for _, a := range ce.Aliases {
			d.cityIdx.add(a, i)
		}
	}
	for i, co := range c.Countries {
		d.countryIx.add(co.Name, i)
		for _, a := range co.Aliases {
			d.countryIx.add(a, i)
		}
	}
	return d, nil
}

// Lookup resolves raw city text. When nothing clears the similarity
// threshold the raw text is kept as the city and zone and country are
// model.Unknown.
func (d *Directory) Lookup(raw string) model.Place {
	if p, ok := d.Find(raw); ok {
		metrics.RecordPlaceLookup(true)
		return p
	}
	metrics.RecordPlaceLookup(false)
	return model.Place{City: strings.TrimSpace(raw), Zone: model.Unknown, Country: model.Unknown}
}

// Find resolves raw city text, reporting whether a center matched.
func (d *Directory) Find(raw string) (model.Place, bool) {
	i, ok := d.match(&d.cityIdx, raw)
	if !ok {
		return model.Place{}, false
	}
	c := d.centers[i]
	return model.Place{
		City:    strings.TrimSpace(c.City),
		Zone:    strings.TrimSpace(c.Zone),
		Country: strings.TrimSpace(c.Country),
	}, true
}

// Country resolves raw country text to its canonical name.
func (d *Directory) Country(raw string) (string, bool) {
	i, ok := d.match(&d.countryIx, raw)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(d.countries[i].Name), true
}

func (d *Directory) match(ix *index, raw string) (int, bool) {
	q := fold(raw)
	if q == "" {
		return 0, false
	}
	for i, k := range ix.keys {
		if k == q {
			return ix.targets[i], true
		}
	}

	// Subsequence candidates first; they cover dropped letters cheaply.
	best, bestScore := -1, 0.0
	for _, m := range fuzzy.Find(q, ix.keys) {
		if s := similarity(q, ix.keys[m.Index]); s > bestScore {
			best, bestScore = m.Index, s
		}
	}
	if bestScore < d.threshold {
		for i, k := range ix.keys {
			if s := similarity(q, k); s > bestScore {
				best, bestScore = i, s
			}
		}
	}
	if best < 0 || bestScore < d.threshold {
		return 0, false
	}
	return ix.targets[best], true
}

var diacritics = runes.Remove(runes.In(unicode.Mn))

// fold lowercases, strips diacritics and punctuation, and collapses spaces.
func fold(s string) string {
	t := transform.Chain(norm.NFD, diacritics, norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r), r == '-', r == '_', r == ',', r == '.':
			return ' '
		default:
			return -1
		}
	}, out)
	return strings.Join(strings.Fields(out), " ")
}

// similarity is 1 minus the edit distance normalized by the longer length.
func similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
