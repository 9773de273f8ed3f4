package scryfall

const (
	// Cards that deckbox may track under both face names
	MultiNameQuery = "(is:doublesided OR is:split OR is:adventure) AND game:paper AND -is:token AND -set:CMB1 AND -is:extra"

	// Buy-a-Box promos, to recover their originating set
	BuyABoxQuery = "is:bab AND game:paper"
)

type Card struct {
	Object          string     `json:"object"`
	Id              string     `json:"id"`
	Name            string     `json:"name"`
	Layout          string     `json:"layout"`
	Set             string     `json:"set"`
	SetName         string     `json:"set_name"`
	CollectorNumber string     `json:"collector_number"`
	CardFaces       []CardFace `json:"card_faces"`
}

type CardFace struct {
	Object string `json:"object"`
	Name   string `json:"name"`
}

// MultiNames maps the front face name of a multi-faced card to its full
// "Front // Back" name. Cards without faces are ignored.
func MultiNames(card *Card, table map[string]string) {
	if len(card.CardFaces) == 0 || card.CardFaces[0].Name == "" {
		return
	}
	table[card.CardFaces[0].Name] = card.Name
}

// BuyABoxSets maps the name of a Buy-a-Box promo to the name of the set
// it was released with.
func BuyABoxSets(card *Card, table map[string]string) {
	if card.Name == "" {
		return
	}
	table[card.Name] = card.SetName
}
