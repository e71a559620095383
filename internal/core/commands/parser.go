package commands

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/SscSPs/dailybalance/internal/utils/validation"
)

// CommandResult is the outcome of parsing one command block.
type CommandResult struct {
	Success bool
	// Duplicate marks a command that was already applied; it is not an error.
	Duplicate bool
	Command   Command
	Identity  string
	Error     string
	Warnings  []string
	Raw       string
	Offset    int
}

// Parser turns model output into validated commands.
type Parser struct {
	categories []string
	now        func() time.Time
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithCategories sets the known category list. Unknown categories only produce warnings.
func WithCategories(categories []string) ParserOption {
	return func(p *Parser) {
		if len(categories) > 0 {
			p.categories = categories
		}
	}
}

// WithClock sets the clock used for date validation.
func WithClock(now func() time.Time) ParserOption {
	return func(p *Parser) {
		p.now = now
	}
}

// NewParser returns a Parser using the default categories and the wall clock.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		categories: validation.DefaultCategories,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts every complete command block in text.
//
// Identities found in existing or already recorded in the session are reported as
// duplicates. New identities are recorded in the session. A nil session behaves
// as a fresh one.
func (p *Parser) Parse(text string, existing IdentitySet, s *Session) []CommandResult {
	if s == nil {
		s = NewSession()
	}
	candidates, _ := Scan(text, 0)
	return p.evaluate(candidates, existing, s)
}

// Feed parses the cumulative buffer of a response being streamed. Only blocks that
// completed since the previous call are reported, so each block yields exactly one
// result however many times the buffer is rescanned.
func (p *Parser) Feed(s *Session, buffer string, existing IdentitySet) []CommandResult {
	if s.cursor > len(buffer) {
		s.cursor = 0
	}
	candidates, resume := Scan(buffer, s.cursor)
	s.cursor = resume
	return p.evaluate(candidates, existing, s)
}

func (p *Parser) evaluate(candidates []Candidate, existing IdentitySet, s *Session) []CommandResult {
	results := make([]CommandResult, 0, len(candidates))
	now := p.now()
	for _, c := range candidates {
		res := CommandResult{Raw: c.JSON, Offset: c.Start}
		if c.Malformed {
			res.Error = "unterminated command block"
			results = append(results, res)
			continue
		}

		var body payload
		if err := json.Unmarshal([]byte(c.JSON), &body); err != nil {
			res.Error = "invalid command JSON: " + err.Error()
			results = append(results, res)
			continue
		}

		cmd, warnings, problem := build(body, p.categories, now)
		res.Warnings = warnings
		if problem != "" {
			res.Error = problem
			results = append(results, res)
			continue
		}

		res.Command = cmd
		res.Identity = Identity(cmd)
		res.Success = true
		if existing.Has(res.Identity) || s.processed.Has(res.Identity) {
			res.Duplicate = true
		} else {
			s.processed.Add(res.Identity)
		}
		results = append(results, res)
	}
	return results
}

// StripCommands removes command blocks from text for display. A block still being
// streamed at the end of text is removed as well.
func StripCommands(text string) string {
	candidates, resume := Scan(text, 0)
	var b strings.Builder
	last := 0
	for _, c := range candidates {
		b.WriteString(text[last:c.Start])
		last = c.End
	}
	tail := text[last:]
	if resume >= last && resume < len(text) && strings.HasPrefix(text[resume:], Marker) {
		tail = text[last:resume]
	}
	b.WriteString(tail)
	return strings.TrimSpace(b.String())
}
