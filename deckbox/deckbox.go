package deckbox

import (
	"context"

	"github.com/mtgban/tcg2deckbox/refcache"
	"github.com/mtgban/tcg2deckbox/replacements"
	"github.com/mtgban/tcg2deckbox/tcgplayer"
)

const (
	OutputFile = "deckbox_import.csv"

	FieldName       = "Name"
	FieldEdition    = "Edition"
	FieldFoil       = "Foil"
	FieldCondition  = "Condition"
	FieldLanguage   = "Language"
	FieldCardNumber = "Card Number"
)

// Fields that the conversion rules may rewrite
var trackedFields = []string{
	FieldName,
	FieldEdition,
	FieldFoil,
	FieldCondition,
	FieldLanguage,
	FieldCardNumber,
}

type LogCallbackFunc func(format string, a ...interface{})

// Prober checks whether deckbox knows a card under its combined name.
type Prober interface {
	HasCombinedName(ctx context.Context, name string) (bool, error)
}

// Converter turns TCGplayer collection export records into deckbox import
// records. Its lookup tables are never modified.
type Converter struct {
	LogCallback LogCallbackFunc

	// Failures that degrade the output, falls back to LogCallback when nil
	ErrorCallback LogCallbackFunc

	// Source columns dropped from the output
	SkipColumns []string

	// Collect a Change for every rewritten field
	TrackChanges bool
	RunId        string

	replacements *replacements.Replacements
	references   *refcache.References
	prober       Prober

	line    int
	changes []Change
}

func NewConverter(rp *replacements.Replacements, refs *refcache.References, prober Prober) *Converter {
	c := Converter{}
	c.SkipColumns = tcgplayer.SkipColumns
	c.replacements = rp
	c.references = refs
	c.prober = prober
	if c.replacements == nil {
		c.replacements = replacements.Empty()
	}
	if c.references == nil {
		c.references = &refcache.References{}
	}
	return &c
}

func (c *Converter) printf(format string, a ...interface{}) {
	if c.LogCallback != nil {
		c.LogCallback("[DBX] "+format, a...)
	}
}

func (c *Converter) errorf(format string, a ...interface{}) {
	if c.ErrorCallback != nil {
		c.ErrorCallback("[DBX] "+format, a...)
		return
	}
	c.printf(format, a...)
}

func (c *Converter) isSkipped(column string) bool {
	for _, skip := range c.SkipColumns {
		if skip == column {
			return true
		}
	}
	return false
}

// Changes returns the field rewrites collected so far.
func (c *Converter) Changes() []Change {
	return c.changes
}
