// Package dsv encodes and decodes delimiter-separated values the way
// spreadsheet applications exchange them over the clipboard.
//
// A field is quoted only when it has to be: when it contains the delimiter,
// a double quote or a line break. Embedded quotes are doubled. Decoding is
// lenient towards text produced by other applications (stray quotes inside
// unquoted fields are literal, CRLF and CR line endings are accepted, a
// single trailing line break is ignored) while Decode(Encode(rows)) always
// reproduces rows exactly.
package dsv

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const quote = '"'

var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// ParseError reports where decoding gave up. Line is 1-based and points at
// the line the offending field started on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Codec struct {
	Delimiter rune
}

var (
	TSV = Codec{Delimiter: '\t'}
	CSV = Codec{Delimiter: ','}
)

// NeedsQuotes reports whether field must be wrapped in quotes to survive a
// round trip.
func (c Codec) NeedsQuotes(field string) bool {
	return strings.ContainsRune(field, c.Delimiter) ||
		strings.ContainsAny(field, "\"\r\n")
}

// Encode joins cells with the delimiter and rows with "\n". There is no
// trailing line break.
func (c Codec) Encode(rows [][]string) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		c.writeRow(&b, row)
	}
	return b.String()
}

// EncodeRow renders a single record.
func (c Codec) EncodeRow(row []string) string {
	var b strings.Builder
	c.writeRow(&b, row)
	return b.String()
}

func (c Codec) writeRow(b *strings.Builder, row []string) {
	// A lone empty field would otherwise render as a blank line.
	if len(row) == 1 && row[0] == "" {
		b.WriteString(`""`)
		return
	}
	for i, field := range row {
		if i > 0 {
			b.WriteRune(c.Delimiter)
		}
		if !c.NeedsQuotes(field) {
			b.WriteString(field)
			continue
		}
		b.WriteByte(quote)
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte(quote)
	}
}

// Decode splits text into rows of fields. Empty text yields no rows.
//
// On a *ParseError the rows decoded so far are still returned, with the
// unterminated field holding everything up to the end of the text.
func (c Codec) Decode(text string) ([][]string, error) {
	text = trimTrailingBreak(text)
	rows := [][]string{}
	if text == "" {
		return rows, nil
	}

	var (
		row        []string
		field      strings.Builder
		line       = 1
		fieldStart = true
		parseErr   error
	)

	i := 0
	for i < len(text) {
		if fieldStart && text[i] == quote {
			startLine := line
			closed := false
			i++
			for i < len(text) {
				ch := text[i]
				if ch == quote {
					if i+1 < len(text) && text[i+1] == quote {
						field.WriteByte(quote)
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				if ch == '\n' {
					line++
				}
				field.WriteByte(ch)
				i++
			}
			if !closed && parseErr == nil {
				parseErr = &ParseError{Line: startLine, Err: ErrUnterminatedQuote}
			}
			fieldStart = false
			continue
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == c.Delimiter:
			row = append(row, field.String())
			field.Reset()
			fieldStart = true
		case r == '\n' || r == '\r':
			if r == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				size = 2
			}
			row = append(row, field.String())
			field.Reset()
			rows = append(rows, row)
			row = nil
			fieldStart = true
			line++
		default:
			field.WriteString(text[i : i+size])
			fieldStart = false
		}
		i += size
	}

	row = append(row, field.String())
	rows = append(rows, row)
	return rows, parseErr
}

func trimTrailingBreak(text string) string {
	switch {
	case strings.HasSuffix(text, "\r\n"):
		return text[:len(text)-2]
	case strings.HasSuffix(text, "\n"), strings.HasSuffix(text, "\r"):
		return text[:len(text)-1]
	}
	return text
}
