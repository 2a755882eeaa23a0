package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one row of a pattern table: a regular expression paired with the
// action it produces and the parameter shape its captures bind to.
type Entry struct {
	Pattern string `json:"pattern"`
	Action  Action `json:"action"`
	Shape   Shape  `json:"shape"`
}

type compiledEntry struct {
	re     *regexp.Regexp
	action Action
	shape  Shape
}

// Parser matches normalized utterances against an ordered pattern table.
// Entries are tried in table order and the first match wins.
type Parser struct {
	table   []Entry
	entries []compiledEntry
}

// Compile builds a Parser from the given table. Patterns compile
// case-insensitive and anchored at the start of the utterance. Entries
// whose capture-group count disagrees with their shape are rejected.
func Compile(table []Entry) (*Parser, error) {
	if len(table) == 0 {
		return nil, errors.New("pattern table is empty")
	}

	entries := make([]compiledEntry, 0, len(table))
	for i, entry := range table {
		if !entry.Shape.valid() {
			return nil, fmt.Errorf("pattern %d %q: unknown shape %q", i, entry.Pattern, entry.Shape)
		}
		re, err := regexp.Compile("(?i)^(?:" + entry.Pattern + ")")
		if err != nil {
			return nil, fmt.Errorf("compile pattern %d %q: %w", i, entry.Pattern, err)
		}
		if got, want := re.NumSubexp(), entry.Shape.groups(); got != want {
			return nil, fmt.Errorf("pattern %d %q: shape %s binds %d capture groups, pattern has %d", i, entry.Pattern, entry.Shape, want, got)
		}
		entries = append(entries, compiledEntry{re: re, action: entry.Action, shape: entry.Shape})
	}

	return &Parser{table: append([]Entry(nil), table...), entries: entries}, nil
}

// MustCompile is Compile for tables known to be statically correct.
func MustCompile(table []Entry) *Parser {
	p, err := Compile(table)
	if err != nil {
		panic(err)
	}
	return p
}

// Normalize lowercases an utterance and trims surrounding whitespace.
// Parse applies the same normalization itself; callers need it only when
// they record or compare utterances on their own.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Parse matches text against the table and binds captures per the matched
// entry's shape. The boolean reports whether any entry matched. A line
// capture that does not hold a non-negative base-10 integer aborts the
// parse: the utterance is reported unmatched, never as a partial command.
func (p *Parser) Parse(text string) (Command, bool) {
	text = Normalize(text)
	for _, entry := range p.entries {
		m := entry.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		params, ok := bind(entry.shape, m)
		if !ok {
			return Command{}, false
		}
		return Command{Action: entry.action, Params: params}, true
	}
	return Command{}, false
}

// Entries returns the table this parser was compiled from, in match order.
func (p *Parser) Entries() []Entry {
	return append([]Entry(nil), p.table...)
}

func bind(shape Shape, match []string) (Params, bool) {
	switch shape {
	case ShapeTarget:
		return TargetParams{Target: match[1]}, true
	case ShapeValue:
		return ValueParams{Value: match[1]}, true
	case ShapeLine:
		line, err := strconv.Atoi(match[1])
		if err != nil || line < 0 {
			return nil, false
		}
		return LineParams{Line: line}, true
	case ShapeTargetValue:
		return TargetValueParams{Target: match[1], Value: match[2]}, true
	default:
		return NoParams{}, true
	}
}
