package dsv

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCodec_Encode(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string
	}{
		{
			name: "plain cells",
			rows: [][]string{{"a", "b"}, {"c", "d"}},
			want: "a\tb\nc\td",
		},
		{
			name: "field with delimiter quote and newline",
			rows: [][]string{{"x\ty \"z\"\nw"}},
			want: "\"x\ty \"\"z\"\"\nw\"",
		},
		{
			name: "lone empty field is quoted",
			rows: [][]string{{"a"}, {""}},
			want: "a\n\"\"",
		},
		{
			name: "empty fields in wider rows stay bare",
			rows: [][]string{{"", "b", ""}},
			want: "\tb\t",
		},
		{
			name: "commas are not special for tsv",
			rows: [][]string{{"1,5", "two"}},
			want: "1,5\ttwo",
		},
		{
			name: "no rows",
			rows: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TSV.Encode(tt.rows)
			if got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodec_Decode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][]string
	}{
		{
			name: "empty",
			text: "",
			want: [][]string{},
		},
		{
			name: "single cell",
			text: "hello",
			want: [][]string{{"hello"}},
		},
		{
			name: "trailing newline from spreadsheets",
			text: "a\tb\r\nc\td\r\n",
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "bare carriage returns",
			text: "a\rb",
			want: [][]string{{"a"}, {"b"}},
		},
		{
			name: "quoted multi line field",
			text: "\"line 1\nline 2\"\tx",
			want: [][]string{{"line 1\nline 2", "x"}},
		},
		{
			name: "stray quote inside unquoted field is literal",
			text: "5\" pipe\tok",
			want: [][]string{{"5\" pipe", "ok"}},
		},
		{
			name: "text after closing quote is kept",
			text: "\"ab\"c\td",
			want: [][]string{{"abc", "d"}},
		},
		{
			name: "ragged rows are preserved",
			text: "a\tb\tc\nd",
			want: [][]string{{"a", "b", "c"}, {"d"}},
		},
		{
			name: "only a line break",
			text: "\n",
			want: [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TSV.Decode(tt.text)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCodec_DecodeUnterminatedQuote(t *testing.T) {
	rows, err := TSV.Decode("a\tb\n\"open\nstill open")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Decode() error = %v, want *ParseError", err)
	}
	if !errors.Is(err, ErrUnterminatedQuote) {
		t.Errorf("errors.Is(err, ErrUnterminatedQuote) = false")
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}

	want := [][]string{{"a", "b"}, {"open\nstill open"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("partial rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	selections := [][][]string{
		{{"plain"}},
		{{""}},
		{{"", ""}, {"", ""}},
		{{"a", ""}, {""}, {"", "b"}},
		{{"tab\there", "quote\"here", "newline\nhere", "cr\rhere", "crlf\r\nhere"}},
		{{"\"leading quote", "trailing quote\""}, {"\"\"", "\t"}},
		{{" padded ", "ünïcödé ✓", "emoji 🚀"}},
		{{"x"}, {"y"}, {""}},
		{{"\xff", "é"}, {"a\xffb", "\xc3"}},
		{{"\xff\t\xfe", "\"\xff"}},
	}

	for _, codec := range []Codec{TSV, CSV} {
		for _, rows := range selections {
			text := codec.Encode(rows)
			got, err := codec.Decode(text)
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", text, err)
			}
			if diff := cmp.Diff(rows, got); diff != "" {
				t.Errorf("round trip of %q with %q mismatch (-want +got):\n%s", text, codec.Delimiter, diff)
			}
		}
	}
}

func TestCodec_NeedsQuotes(t *testing.T) {
	tests := []struct {
		field string
		codec Codec
		want  bool
	}{
		{"simple", TSV, false},
		{"a,b", TSV, false},
		{"a,b", CSV, true},
		{"a\tb", TSV, true},
		{"say \"hi\"", TSV, true},
		{"two\nlines", CSV, true},
		{"", TSV, false},
	}

	for _, tt := range tests {
		if got := tt.codec.NeedsQuotes(tt.field); got != tt.want {
			t.Errorf("NeedsQuotes(%q) with %q = %v, want %v", tt.field, tt.codec.Delimiter, got, tt.want)
		}
	}
}

func TestCodec_EncodeRow(t *testing.T) {
	got := CSV.EncodeRow([]string{"Acme, Inc.", "Globex"})
	want := `"Acme, Inc.",Globex`
	if got != want {
		t.Errorf("EncodeRow() = %q, want %q", got, want)
	}
}
