package commands

import "strings"

// Marker introduces a command block in model output.
const Marker = "__apply__"

// Candidate is one marker + JSON object found in the text.
type Candidate struct {
	Start int    // offset of the marker
	End   int    // offset just past the closing brace, or the end of the unterminated text
	JSON  string // the object text, braces included
	// Malformed marks an object that never closed before the next marker.
	Malformed bool
}

type scanState int

const (
	seekingMarker scanState = iota
	seekingOpenBrace
	countingDepth
)

// Scan finds every complete command block in text starting at offset from.
//
// It returns the candidates in order and the offset from which a later scan of
// a longer version of the same text must resume. When a block is still open at
// the end of text the resume offset points at its marker, so the block is
// reconsidered once more text arrives. An open block followed by another marker
// is returned as a Malformed candidate and scanning continues at that marker.
func Scan(text string, from int) ([]Candidate, int) {
	var (
		out         []Candidate
		state       = seekingMarker
		i           = from
		markerStart int
		objStart    int
		depth       int
		inString    bool
		escaped     bool
	)

	for {
		switch state {
		case seekingMarker:
			idx := indexFrom(text, Marker, i)
			if idx < 0 {
				// a marker may be split across deltas; keep its possible prefix in range
				return out, max(i, len(text)-len(Marker)+1)
			}
			markerStart = idx
			i = idx + len(Marker)
			state = seekingOpenBrace

		case seekingOpenBrace:
			if i >= len(text) {
				return out, markerStart
			}
			switch c := text[i]; {
			case isSpace(c):
				i++
			case c == '{':
				objStart = i
				depth, inString, escaped = 0, false, false
				state = countingDepth
			default:
				// marker mentioned in prose, not followed by an object
				state = seekingMarker
			}

		case countingDepth:
			if i >= len(text) {
				// a marker swallowed by an unterminated string still ends the block
				next := indexFrom(text, Marker, markerStart+len(Marker))
				if next < 0 {
					return out, markerStart
				}
				out = append(out, malformed(text, markerStart, objStart, next))
				i = next
				state = seekingMarker
				continue
			}
			if !inString && strings.HasPrefix(text[i:], Marker) {
				out = append(out, malformed(text, markerStart, objStart, i))
				state = seekingMarker
				continue
			}
			c := text[i]
			switch {
			case inString && escaped:
				escaped = false
			case inString && c == '\\':
				escaped = true
			case inString && c == '"':
				inString = false
			case inString:
			case c == '"':
				inString = true
			case c == '{':
				depth++
			case c == '}':
				depth--
				if depth == 0 {
					out = append(out, Candidate{Start: markerStart, End: i + 1, JSON: text[objStart : i+1]})
					state = seekingMarker
				}
			}
			i++
		}
	}
}

func malformed(text string, markerStart, objStart, next int) Candidate {
	body := strings.TrimRight(text[objStart:next], " \t\r\n")
	return Candidate{Start: markerStart, End: objStart + len(body), JSON: body, Malformed: true}
}

func indexFrom(s, substr string, from int) int {
	if from >= len(s) {
		return -1
	}
	idx := strings.Index(s[from:], substr)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
