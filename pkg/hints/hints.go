// Package hints loads the keypad code table: 4-character codes mapped to hint
// identifiers, and hint identifiers mapped to the text shown to players. A
// table is immutable once loaded.
package hints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var errEmptyDocument = errors.New("hints: empty document")

// ParseError reports a malformed or unreadable hint document. Load recovers
// from it by returning an empty table.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("hints: parse: %v", e.Err)
	}
	return fmt.Sprintf("hints: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ID is a hint identifier. Documents may spell it as a string or a number.
type ID string

// UnmarshalJSON accepts both `"3"` and `3`.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("hint id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar.
func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("hint id must be a scalar, line %d", node.Line)
	}
	*id = ID(node.Value)
	return nil
}

// Document is the on-disk shape of a hint table.
type Document struct {
	Codes map[string]ID     `json:"codes" yaml:"codes"`
	Hints map[string]string `json:"hints" yaml:"hints"`
}

// Table resolves keypad codes to hint text.
type Table struct {
	codes map[string]ID
	hints map[string]string
}

// Empty returns a table with no codes.
func Empty() *Table {
	return &Table{codes: map[string]ID{}, hints: map[string]string{}}
}

// New builds a table from a decoded document. The maps are copied.
func New(doc Document) *Table {
	t := Empty()
	for code, id := range doc.Codes {
		t.codes[code] = id
	}
	for id, text := range doc.Hints {
		t.hints[id] = text
	}
	return t
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Err: errEmptyDocument}
	}
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return New(doc), nil
}

// FormatFor guesses the document format from the file extension. Anything
// that is not .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Read loads and parses the hint document at path.
func Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	t, err := Parse(data, FormatFor(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Load reads the hint document at path. Any failure is logged and an empty
// table is returned so the room keeps running without hints.
func Load(path string, log zerolog.Logger) *Table {
	if path == "" {
		log.Warn().Msg("no hint table configured, every code will be rejected")
		return Empty()
	}
	t, err := Read(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("error parsing hint codes config")
		return Empty()
	}
	log.Info().Str("path", path).Int("codes", t.Len()).Msg("loaded hint codes")
	return t
}

// Len returns the number of configured codes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.codes)
}

// Lookup resolves code to hint text. Codes mapped to a hint identifier with no
// registered text resolve to "P<id>".
func (t *Table) Lookup(code string) (string, bool) {
	if t == nil {
		return "", false
	}
	id, ok := t.codes[code]
	if !ok || id == "" {
		return "", false
	}
	if text, ok := t.hints[string(id)]; ok {
		return text, true
	}
	return "P" + string(id), true
}

// Entry is one row of the table, for listings.
type Entry struct {
	Code    string
	ID      ID
	Text    string
	HasText bool
}

// Entries lists the table sorted by code.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.codes))
	for code, id := range t.codes {
		text, has := t.hints[string(id)]
		out = append(out, Entry{Code: code, ID: id, Text: text, HasText: has})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Validate reports codes that can never be entered on a keypad of the given
// length and codes whose hint has no text.
func (t *Table) Validate(codeLength int) []string {
	var problems []string
	for _, e := range t.Entries() {
		if len(e.Code) != codeLength {
			problems = append(problems, fmt.Sprintf("code %q has %d characters, keypad takes %d", e.Code, len(e.Code), codeLength))
		} else if _, err := strconv.ParseUint(e.Code, 10, 64); err != nil {
			problems = append(problems, fmt.Sprintf("code %q is not numeric", e.Code))
		}
		if e.ID == "" {
			problems = append(problems, fmt.Sprintf("code %q has an empty hint id", e.Code))
		} else if !e.HasText {
			problems = append(problems, fmt.Sprintf("code %q uses hint %q which has no text (shows %q)", e.Code, e.ID, "P"+string(e.ID)))
		}
	}
	return problems
}
