// Package importer parses institution-specific bank statement exports into
// normalized statement records.
package importer

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// ParseResult is the outcome of parsing one statement export. EndBalance is
// set only when the institution reports an authoritative closing balance.
type ParseResult struct {
	Records    []model.StatementRecord
	EndBalance decimal.NullDecimal
}

// Parser converts a statement export into normalized records. Parsing is
// best-effort: a malformed row is skipped and logged, never fatal.
type Parser interface {
	Parse(r io.Reader) (ParseResult, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry(log zerolog.Logger) *Registry {
	r := NewRegistry()
	r.Register(NewANZParser(log))
	r.Register(NewCBAParser(log))
	return r
}
