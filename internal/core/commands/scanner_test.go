package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantJSON   []string
		wantResume int
	}{
		{
			name:       "no marker",
			text:       "hello world",
			wantResume: 3,
		},
		{
			name:       "single block",
			text:       `a __apply__ {"x":1} b`,
			wantJSON:   []string{`{"x":1}`},
			wantResume: 19,
		},
		{
			name:       "nested objects",
			text:       `__apply__{"a":{"b":{}}}`,
			wantJSON:   []string{`{"a":{"b":{}}}`},
			wantResume: 23,
		},
		{
			name:       "escaped quote inside string",
			text:       `__apply__ {"n":"say \"}\" ok"}`,
			wantJSON:   []string{`{"n":"say \"}\" ok"}`},
			wantResume: 30,
		},
		{
			name:       "open block waits at its marker",
			text:       `ok __apply__ {"a":"}`,
			wantResume: 3,
		},
		{
			name:       "marker then only whitespace waits",
			text:       "x __apply__  \n",
			wantResume: 2,
		},
		{
			name:       "unclosed block ends at the next marker",
			text:       `x __apply__ {"a":1 __apply__ {"b":2} y`,
			wantJSON:   []string{`{"a":1`, `{"b":2}`},
			wantResume: 36,
		},
		{
			name:       "unterminated string ends at the next marker",
			text:       `__apply__ {"n":"x __apply__ {}`,
			wantJSON:   []string{`{"n":"x`, `{}`},
			wantResume: 30,
		},
		{
			name:       "two blocks, second open",
			text:       `__apply__ {} __apply__ {`,
			wantJSON:   []string{`{}`},
			wantResume: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, resume := Scan(tt.text, 0)
			var jsons []string
			for _, c := range got {
				jsons = append(jsons, c.JSON)
				assert.Equal(t, c.JSON, tt.text[c.End-len(c.JSON):c.End])
			}
			assert.Equal(t, tt.wantJSON, jsons)
			assert.Equal(t, tt.wantResume, resume)
		})
	}
}

func TestScan_MalformedFlag(t *testing.T) {
	got, _ := Scan(`__apply__ {"a":1 __apply__ {"b":2}`, 0)
	if assert.Len(t, got, 2) {
		assert.True(t, got[0].Malformed)
		assert.False(t, got[1].Malformed)
		assert.Equal(t, 17, got[1].Start)
	}
}
