package deckbox

import (
	"context"
	"regexp"
	"strings"

	"github.com/mtgban/tcg2deckbox/replacements"
	"github.com/mtgban/tcg2deckbox/tcgplayer"
)

var (
	parenthesesRE = regexp.MustCompile(` \(.*\)`)
	commanderRE   = regexp.MustCompile(`Commander: (.*)$`)
	promoPackRE   = regexp.MustCompile(`Promo Pack: (.*)$`)
)

// Star markers, including the mangled form of a UTF-8 star read as cp1252
var cardNumberReplacer = strings.NewReplacer(
	"â˜…", "",
	"★", "",
	"*", "",
)

// Preprocess rewrites record in place from TCGplayer to deckbox naming and
// returns it. Rules are applied in order, and later rules see the output
// of earlier ones. No rule fails: unknown values are left as they are.
func (c *Converter) Preprocess(ctx context.Context, record tcgplayer.Record) tcgplayer.Record {
	// Don't bother with columns that are going to be ignored
	for _, column := range c.SkipColumns {
		delete(record, column)
	}

	// deckbox marks foils by presence only
	if record[FieldFoil] == "Normal" {
		record[FieldFoil] = ""
	}

	c.replacements.Apply(record, replacements.Conditions, FieldCondition)
	c.replacements.Apply(record, replacements.Languages, FieldLanguage)

	cardName, hasName := record[FieldName]
	edition, hasEdition := record[FieldEdition]

	// No differentiator between full art and regular versions (BFZ lands)
	cardName = strings.Replace(cardName, " - Full Art", "", -1)

	if strings.Contains(cardName, "(JP Alternate Art)") && edition == "War of the Spark" {
		edition = "War of the Spark Japanese Alternate Art"
		cardName = strings.Replace(cardName, " (JP Alternate Art)", "", -1)
	}

	setName, found := c.references.BuyABoxSet(cardName)
	if found && edition == "Buy-A-Box Promos" {
		if strings.Contains(setName, "Promos") {
			edition = "Media Inserts"
		} else {
			edition = setName
		}
	}

	// Mystery Booster test cards are split by edition on deckbox, and
	// by name on TCGplayer
	if strings.Contains(cardName, "(No PW Symbol)") && edition == "Mystery Booster: Convention Edition Exclusives" {
		edition = "Mystery Booster Playtest Cards 2021"
	}

	// Variants like Extended Art, Showcase, Borderless...
	cardName = parenthesesRE.ReplaceAllString(cardName, "")

	fixup, found := c.replacements.Lookup(replacements.Names, cardName)
	if found {
		cardName = fixup
	}

	cardName = c.resolveMultiName(ctx, cardName)

	if strings.Contains(edition, "Commander: ") {
		edition = commanderRE.ReplaceAllString(edition, "$1 Commander")
	}

	edition = strings.Replace(edition, "Universes Beyond: ", "", -1)

	number, found := record[FieldCardNumber]
	if found {
		record[FieldCardNumber] = cardNumberReplacer.Replace(number)
	}

	// Some old promo packs keep the prefix on deckbox too
	if strings.Contains(edition, "Promo Pack: ") && !c.replacements.Has(replacements.Editions, edition) {
		edition = promoPackRE.ReplaceAllString(edition, "$1 Promo Pack")
	}

	fixup, found = c.replacements.Lookup(replacements.Editions, edition)
	if found {
		edition = fixup
	}

	if hasName {
		record[FieldName] = cardName
	}
	if hasEdition {
		record[FieldEdition] = edition
	}

	return record
}

// deckbox is inconsistent on whether multi-faced cards are listed with both
// names or just the front face, so ask deckbox directly. Any failure keeps
// the front face name.
func (c *Converter) resolveMultiName(ctx context.Context, cardName string) string {
	fullName, found := c.references.FullName(cardName)
	if !found {
		return cardName
	}
	if c.prober == nil {
		return cardName
	}

	ok, err := c.prober.HasCombinedName(ctx, fullName)
	if err != nil {
		c.errorf("Unable to look up '%s' on deckbox, front face name '%s' will be used: %v", fullName, cardName, err)
		return cardName
	}
	if !ok {
		c.printf("Dual name not found for '%s' on deckbox, front face name '%s' will be used.", fullName, cardName)
		return cardName
	}

	c.printf("Dual name for '%s' found on deckbox, the dual name will be used for the import.", fullName)
	return fullName
}
