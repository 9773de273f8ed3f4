package replacements

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

const testConfig = `
# Column names
[COLUMNS]
printing = Foil
number = Card Number
set = Edition

[CONDITIONS]
near mint = Near Mint
lightly played = Good (Lightly Played)

[LANGUAGES]
chinese (s) = Chinese

[NAMES]
lim-dul's vault = Lim-Dûl's Vault

[EDITONS]
time spiral timeshifted = Time Spiral "Timeshifted"
magic 2015 (m15) = Magic 2015 Core Set

[EDITIONS]
magic 2015 (m15) = Magic 2015
promo pack: throne of eldraine = Promo Pack: Throne of Eldraine
`

type LookupTest struct {
	Category string
	In       string
	Out      string
	Found    bool
}

var LookupTests = []LookupTest{
	{Category: Conditions, In: "Near Mint", Out: "Near Mint", Found: true},
	{Category: Conditions, In: "NEAR MINT", Out: "Near Mint", Found: true},
	{Category: Conditions, In: "Lightly Played", Out: "Good (Lightly Played)", Found: true},
	{Category: Conditions, In: "Damaged", Found: false},
	{Category: Languages, In: "Chinese (S)", Out: "Chinese", Found: true},
	{Category: Names, In: "Lim-Dul's Vault", Out: "Lim-Dûl's Vault", Found: true},
	{Category: Editions, In: "Time Spiral Timeshifted", Out: `Time Spiral "Timeshifted"`, Found: true},
	{Category: Editions, In: "Magic 2015 (M15)", Out: "Magic 2015", Found: true},
	{Category: Editions, In: "Promo Pack: Throne of Eldraine", Out: "Promo Pack: Throne of Eldraine", Found: true},
	{Category: Columns, In: "Printing", Out: "Foil", Found: true},
	{Category: "UNKNOWN", In: "Printing", Found: false},
}

func TestLookup(t *testing.T) {
	rp, err := LoadReader(strings.NewReader(testConfig))
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err.Error())
	}

	for _, probe := range LookupTests {
		test := probe
		t.Run(test.Category+"/"+test.In, func(t *testing.T) {
			t.Parallel()
			out, found := rp.Lookup(test.Category, test.In)
			if found != test.Found {
				t.Errorf("FAIL %s: Expected found=%v got %v", test.In, test.Found, found)
				return
			}
			if out != test.Out {
				t.Errorf("FAIL %s: Expected '%s' got '%s'", test.In, test.Out, out)
				return
			}
			t.Log("PASS:", test.In)
		})
	}
}

func TestApply(t *testing.T) {
	rp, err := LoadReader(strings.NewReader(testConfig))
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err.Error())
	}

	record := map[string]string{
		"Condition": "NEAR MINT",
		"Language":  "English",
	}
	rp.Apply(record, Conditions, "Condition")
	rp.Apply(record, Languages, "Language")
	rp.Apply(record, Names, "Name")

	if record["Condition"] != "Near Mint" {
		t.Errorf("FAIL: Expected 'Near Mint' got '%s'", record["Condition"])
	}
	if record["Language"] != "English" {
		t.Errorf("FAIL: Expected 'English' got '%s'", record["Language"])
	}
	if _, found := record["Name"]; found {
		t.Errorf("FAIL: Apply added a missing field")
	}
}

func TestRenameHeader(t *testing.T) {
	rp, err := LoadReader(strings.NewReader(testConfig))
	if err != nil {
		t.Fatalf("FAIL: Unexpected error: %s", err.Error())
	}

	header := []string{"Quantity", "Name", "Set", "Printing", "Number"}
	out := rp.RenameHeader(header)
	expected := []string{"Quantity", "Name", "Edition", "Foil", "Card Number"}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("FAIL: Expected '%s' got '%s'", expected[i], out[i])
		}
	}
	if header[2] != "Set" {
		t.Errorf("FAIL: RenameHeader modified its input")
	}
}

func TestEmpty(t *testing.T) {
	rp := Empty()
	for _, category := range Categories {
		if rp.Len(category) != 0 {
			t.Errorf("FAIL: %s is not empty", category)
		}
	}
	record := map[string]string{"Condition": "Near Mint"}
	rp.Apply(record, Conditions, "Condition")
	if record["Condition"] != "Near Mint" {
		t.Errorf("FAIL: Empty replacements changed a value")
	}

	var nilRp *Replacements
	if nilRp.Has(Editions, "anything") {
		t.Errorf("FAIL: nil replacements found a key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("FAIL: Expected a not exist error, got %v", err)
	}
}

func TestLoadDefaultFile(t *testing.T) {
	rp, err := Load(filepath.Join("..", DefaultFile))
	if err != nil {
		t.Fatal(err)
	}

	header := rp.RenameHeader([]string{"Quantity", "Name", "Set", "Printing"})
	expected := []string{"Count", "Name", "Edition", "Foil"}
	for i := range expected {
		if header[i] != expected[i] {
			t.Errorf("FAIL: Expected '%s' got '%s'", expected[i], header[i])
		}
	}

	out, found := rp.Lookup(Conditions, "Lightly Played")
	if !found || out != "Good (Lightly Played)" {
		t.Errorf("FAIL: Expected 'Good (Lightly Played)' got '%s'", out)
	}
	if rp.Len(Names) != 0 {
		t.Errorf("FAIL: Expected no name replacements, got %d", rp.Len(Names))
	}
}
