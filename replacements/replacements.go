// Package replacements loads the literal string substitutions used to move
// values from TCGplayer naming to deckbox naming.
//
// The file is INI formatted, one section per category, each entry mapping a
// lowercase source value to its destination value:
//
//	[CONDITIONS]
//	near mint = Near Mint
//	lightly played = Good (Lightly Played)
//
// Lookups are case-insensitive and a missing key is never an error.
package replacements

import (
	"io"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	Columns    = "COLUMNS"
	Conditions = "CONDITIONS"
	Languages  = "LANGUAGES"
	Names      = "NAMES"
	Editions   = "EDITIONS"

	// Older configuration files carry this spelling
	editionsTypo = "EDITONS"

	DefaultFile = "replacements.config"
)

var Categories = []string{Columns, Conditions, Languages, Names, Editions}

var loadOptions = ini.LoadOptions{
	InsensitiveKeys:     true,
	IgnoreInlineComment: true,
	IgnoreContinuation:  true,
	KeyValueDelimiters:  "=",
}

type Replacements struct {
	tables map[string]map[string]string
}

// Empty returns a set of replacements that leaves every value untouched.
func Empty() *Replacements {
	rp := Replacements{}
	rp.tables = map[string]map[string]string{}
	for _, category := range Categories {
		rp.tables[category] = map[string]string{}
	}
	return &rp
}

func Load(path string) (*Replacements, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadReader(file)
}

func LoadReader(r io.Reader) (*Replacements, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, err
	}

	rp := Empty()

	// Load the misspelled section first so that the correct one wins
	for _, name := range []string{editionsTypo, Columns, Conditions, Languages, Names, Editions} {
		section, err := cfg.GetSection(name)
		if err != nil {
			continue
		}

		category := name
		if name == editionsTypo {
			category = Editions
		}
		for _, key := range section.Keys() {
			rp.tables[category][strings.ToLower(key.Name())] = key.Value()
		}
	}

	return rp, nil
}

// Len returns the number of entries for category.
func (rp *Replacements) Len(category string) int {
	return len(rp.tables[category])
}

// Lookup returns the replacement for value in category, if any.
func (rp *Replacements) Lookup(category, value string) (string, bool) {
	if rp == nil {
		return "", false
	}
	out, found := rp.tables[category][strings.ToLower(value)]
	return out, found
}

// Has reports whether value is a key of category.
func (rp *Replacements) Has(category, value string) bool {
	_, found := rp.Lookup(category, value)
	return found
}

// Apply overwrites record[field] with its replacement from category.
// Records without field and values without a replacement are left as is.
func (rp *Replacements) Apply(record map[string]string, category, field string) {
	value, found := record[field]
	if !found {
		return
	}
	out, found := rp.Lookup(category, value)
	if found {
		record[field] = out
	}
}

// RenameHeader returns a copy of header with every column replaced
// according to the COLUMNS category.
func (rp *Replacements) RenameHeader(header []string) []string {
	out := make([]string, len(header))
	for i, column := range header {
		out[i] = column
		renamed, found := rp.Lookup(Columns, column)
		if found {
			out[i] = renamed
		}
	}
	return out
}
