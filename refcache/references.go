package refcache

import (
	"context"

	"github.com/mtgban/tcg2deckbox/scryfall"
)

// References holds the lookup tables consulted while converting rows.
// They are read-only once loaded.
type References struct {
	// Front face name to full "Front // Back" name
	MultiNames Table

	// Buy-a-Box promo name to originating set name
	BuyABox Table
}

// LoadReferences fills both tables, downloading them when needed.
func LoadReferences(ctx context.Context, cache *Cache) *References {
	refs := References{}
	refs.MultiNames = cache.GetOrRefresh(ctx, MultiNamesFile, scryfall.SearchURL(scryfall.MultiNameQuery), scryfall.MultiNames)
	refs.BuyABox = cache.GetOrRefresh(ctx, BuyABoxFile, scryfall.SearchURL(scryfall.BuyABoxQuery), scryfall.BuyABoxSets)
	return &refs
}

// FullName returns the combined name of a multi-faced card given its front face.
func (refs *References) FullName(frontFace string) (string, bool) {
	if refs == nil {
		return "", false
	}
	fullName, found := refs.MultiNames[frontFace]
	return fullName, found
}

// BuyABoxSet returns the name of the set a Buy-a-Box promo comes from.
func (refs *References) BuyABoxSet(cardName string) (string, bool) {
	if refs == nil {
		return "", false
	}
	setName, found := refs.BuyABox[cardName]
	return setName, found
}
