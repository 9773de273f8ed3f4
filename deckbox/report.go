package deckbox

import (
	"io"

	"github.com/scizorman/go-ndjson"

	"github.com/mtgban/tcg2deckbox/tcgplayer"
)

// Change describes a single field rewritten during a conversion.
type Change struct {
	RunId  string `json:"run_id,omitempty"`
	Line   int    `json:"line"`
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

func snapshot(record tcgplayer.Record) tcgplayer.Record {
	out := tcgplayer.Record{}
	for _, field := range trackedFields {
		value, found := record[field]
		if found {
			out[field] = value
		}
	}
	return out
}

func (c *Converter) recordChanges(before, after tcgplayer.Record) {
	for _, field := range trackedFields {
		old, found := before[field]
		if !found || old == after[field] {
			continue
		}
		c.changes = append(c.changes, Change{
			RunId:  c.RunId,
			Line:   c.line,
			Field:  field,
			Before: old,
			After:  after[field],
		})
	}
}

// WriteChanges dumps changes to w, one JSON object per line.
func WriteChanges(changes []Change, w io.Writer) error {
	if len(changes) == 0 {
		return nil
	}

	output, err := ndjson.Marshal(changes)
	if err != nil {
		return err
	}

	_, err = w.Write(output)
	return err
}
