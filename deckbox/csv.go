package deckbox

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mtgban/tcg2deckbox/tcgplayer"
)

// Header returns the deckbox header matching a TCGplayer export header:
// columns are renamed and the skipped ones are removed.
func (c *Converter) Header(exportHeader []string) []string {
	var header []string
	for _, column := range c.replacements.RenameHeader(exportHeader) {
		if c.isSkipped(column) {
			continue
		}
		header = append(header, column)
	}
	return header
}

// Convert reads every record from er, rewrites it and writes the result to
// w as a deckbox import file. It returns the number of records written.
func (c *Converter) Convert(ctx context.Context, er *tcgplayer.ExportReader, w io.Writer) (int, error) {
	err := er.SetHeader(c.replacements.RenameHeader(er.Header()))
	if err != nil {
		return 0, err
	}
	header := c.Header(er.Header())

	writer := newQuotingWriter(w)
	err = writer.Write(header)
	if err != nil {
		return 0, err
	}

	count := 0
	for {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}

		record, err := er.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("error reading record: %w", err)
		}
		c.line = er.Line()

		var before tcgplayer.Record
		if c.TrackChanges {
			before = snapshot(record)
		}

		c.Preprocess(ctx, record)

		if c.TrackChanges {
			c.recordChanges(before, record)
		}

		row := make([]string, len(header))
		for i, column := range header {
			row[i] = record[column]
		}
		err = writer.Write(row)
		if err != nil {
			return count, err
		}
		count++
	}

	return count, writer.Flush()
}

// encoding/csv only quotes fields when needed, deckbox gets every
// field quoted
type quotingWriter struct {
	w *bufio.Writer
}

func newQuotingWriter(w io.Writer) *quotingWriter {
	return &quotingWriter{
		w: bufio.NewWriter(w),
	}
}

func (qw *quotingWriter) Write(fields []string) error {
	for i, field := range fields {
		if i > 0 {
			err := qw.w.WriteByte(',')
			if err != nil {
				return err
			}
		}
		_, err := qw.w.WriteString(`"` + strings.Replace(field, `"`, `""`, -1) + `"`)
		if err != nil {
			return err
		}
	}
	_, err := qw.w.WriteString("\r\n")
	return err
}

func (qw *quotingWriter) Flush() error {
	return qw.w.Flush()
}
