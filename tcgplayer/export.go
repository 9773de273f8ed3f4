package tcgplayer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Columns of a collection export that have no deckbox counterpart
var SkipColumns = []string{
	"Simple Name",
	"Set Code",
	"Rarity",
	"Product ID",
	"SKU",
	"Price",
	"Price Each",
}

var ErrInvalidExport = errors.New("the file passed does not appear to be a valid CSV file")

// Record is a single line of a collection export, keyed by column name.
type Record map[string]string

// Sniff checks that data looks like comma separated text.
func Sniff(data []byte) error {
	_, err := decode(data)
	return err
}

func decode(data []byte) ([]byte, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: not utf-8 text", ErrInvalidExport)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content", ErrInvalidExport)
	}

	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExport, err.Error())
	}

	header, err := csv.NewReader(bytes.NewReader(decoded)).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input file", ErrInvalidExport)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExport, err.Error())
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: no comma separated header", ErrInvalidExport)
	}

	return decoded, nil
}

type ExportReader struct {
	csvReader *csv.Reader
	header    []string
}

// NewExportReader reads the whole export from r and validates it before
// returning a reader positioned after the header line.
func NewExportReader(r io.Reader) (*ExportReader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	decoded, err := decode(data)
	if err != nil {
		return nil, err
	}

	er := ExportReader{}
	er.csvReader = csv.NewReader(bytes.NewReader(decoded))
	er.csvReader.FieldsPerRecord = -1

	er.header, err = er.csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExport, err.Error())
	}

	return &er, nil
}

// Header returns a copy of the current column names.
func (er *ExportReader) Header() []string {
	return append([]string{}, er.header...)
}

// SetHeader renames the columns used as keys of the records read from now on.
func (er *ExportReader) SetHeader(header []string) error {
	if len(header) != len(er.header) {
		return fmt.Errorf("header has %d columns, expected %d", len(header), len(er.header))
	}
	er.header = append([]string{}, header...)
	return nil
}

// Read returns the next record, or io.EOF when the export is over.
// Missing trailing fields are set to empty, extra fields are dropped.
func (er *ExportReader) Read() (Record, error) {
	fields, err := er.csvReader.Read()
	if err != nil {
		return nil, err
	}

	record := Record{}
	for i, column := range er.header {
		if i < len(fields) {
			record[column] = fields[i]
		} else {
			record[column] = ""
		}
	}
	return record, nil
}

// Line returns the input line of the last record read.
func (er *ExportReader) Line() int {
	line, _ := er.csvReader.FieldPos(0)
	return line
}
