package deckbox

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtgban/tcg2deckbox/replacements"
	"github.com/mtgban/tcg2deckbox/tcgplayer"
)

const convertReplacements = `
[COLUMNS]
quantity = Count
set = Edition
printing = Foil

[CONDITIONS]
near mint = Near Mint
lightly played = Good (Lightly Played)
`

const convertInput = "\ufeffQuantity,Name,Simple Name,Set,Card Number,Set Code,Printing,Condition,Language,Rarity,Product ID,SKU,Price,Price Each\r\n" +
	"1,Growth Spiral,Growth Spiral,Guilds of Ravnica,150,GRN,Normal,Near Mint,English,C,123,456,$0.10,$0.10\r\n" +
	"2,Fire (Borderless),Fire,Apocalypse,128★,APC,Foil,LIGHTLY PLAYED,English,U,789,1011,$1.00,$0.50\r\n" +
	"1,\"Jace, the Mind Sculptor \"\"Big Furry Monster\"\"\",Jace,Commander: Jumpstart,1,JMP,Normal,Near Mint,English,M,1,2,$1.00,$1.00\r\n"

const convertOutput = `"Count","Name","Edition","Card Number","Foil","Condition","Language"` + "\r\n" +
	`"1","Growth Spiral","Guilds of Ravnica","150","","Near Mint","English"` + "\r\n" +
	`"2","Fire // Ice","Apocalypse","128","Foil","Good (Lightly Played)","English"` + "\r\n" +
	`"1","Jace, the Mind Sculptor ""Big Furry Monster""","Jumpstart Commander","1","","Near Mint","English"` + "\r\n"

func newConvertConverter(t *testing.T) *Converter {
	t.Helper()
	rp, err := replacements.LoadReader(strings.NewReader(convertReplacements))
	require.NoError(t, err)
	return NewConverter(rp, testReferences, newTestProber())
}

func TestConvert(t *testing.T) {
	c := newConvertConverter(t)

	er, err := tcgplayer.NewExportReader(strings.NewReader(convertInput))
	require.NoError(t, err)

	var out bytes.Buffer
	count, err := c.Convert(context.Background(), er, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, convertOutput, out.String())

	for _, column := range tcgplayer.SkipColumns {
		assert.NotContains(t, out.String(), `"`+column+`"`)
	}
}

func TestConvertHeader(t *testing.T) {
	c := newConvertConverter(t)
	header := c.Header([]string{"Quantity", "Name", "Simple Name", "Set", "Printing", "Price"})
	assert.Equal(t, []string{"Count", "Name", "Edition", "Foil"}, header)
}

func TestConvertCustomSkipColumns(t *testing.T) {
	c := newConvertConverter(t)
	c.SkipColumns = append([]string{"Language"}, tcgplayer.SkipColumns...)

	er, err := tcgplayer.NewExportReader(strings.NewReader(convertInput))
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = c.Convert(context.Background(), er, &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), `"Count","Name","Edition","Card Number","Foil","Condition"`+"\r\n"))
	assert.NotContains(t, out.String(), "English")
}

func TestConvertCanceled(t *testing.T) {
	c := newConvertConverter(t)

	er, err := tcgplayer.NewExportReader(strings.NewReader(convertInput))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	count, err := c.Convert(ctx, er, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, count)
}

func TestConvertTrackChanges(t *testing.T) {
	c := newConvertConverter(t)
	c.TrackChanges = true
	c.RunId = "test-run"

	er, err := tcgplayer.NewExportReader(strings.NewReader(convertInput))
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = c.Convert(context.Background(), er, &out)
	require.NoError(t, err)

	changes := c.Changes()
	assert.Contains(t, changes, Change{RunId: "test-run", Line: 2, Field: FieldFoil, Before: "Normal", After: ""})
	assert.Contains(t, changes, Change{RunId: "test-run", Line: 3, Field: FieldName, Before: "Fire (Borderless)", After: "Fire // Ice"})
	assert.Contains(t, changes, Change{RunId: "test-run", Line: 3, Field: FieldCardNumber, Before: "128★", After: "128"})
	assert.Contains(t, changes, Change{RunId: "test-run", Line: 4, Field: FieldEdition, Before: "Commander: Jumpstart", After: "Jumpstart Commander"})
	for _, change := range changes {
		assert.NotEqual(t, change.Before, change.After)
	}

	var report bytes.Buffer
	err = WriteChanges(changes, &report)
	require.NoError(t, err)

	lines := 0
	scanner := bufio.NewScanner(&report)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		var change Change
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &change))
		assert.Equal(t, "test-run", change.RunId)
		lines++
	}
	assert.Equal(t, len(changes), lines)
}

func TestWriteChangesEmpty(t *testing.T) {
	var report bytes.Buffer
	err := WriteChanges(nil, &report)
	require.NoError(t, err)
	assert.Zero(t, report.Len())
}
