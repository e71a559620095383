package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DefaultLimit and MaxLimit bound a history page.
const (
	DefaultLimit = 30
	MaxLimit     = 366
)

// EncodeDateToken creates an opaque token that resumes a listing after date.
func EncodeDateToken(date string) string {
	return base64.URLEncoding.EncodeToString([]byte("d|" + date))
}

// DecodeDateToken parses a token created by EncodeDateToken.
func DecodeDateToken(token string) (string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[0] != "d" {
		return "", fmt.Errorf("invalid pagination token format (split)")
	}
	if _, err := time.Parse(dateLayout, parts[1]); err != nil {
		return "", fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return parts[1], nil
}

// NormalizeLimit clamps a requested page size into [1, MaxLimit], using DefaultLimit for 0 or less.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// PageDates returns one page of dates sorted newest first. Dates are YYYY-MM-DD keys so
// string order is date order. nextToken is empty on the last page.
func PageDates(dates []string, limit int, token string) (page []string, nextToken string, err error) {
	limit = NormalizeLimit(limit)
	start := 0
	if token != "" {
		after, err := DecodeDateToken(token)
		if err != nil {
			return nil, "", err
		}
		for start < len(dates) && dates[start] >= after {
			start++
		}
	}
	end := start + limit
	if end >= len(dates) {
		return dates[start:], "", nil
	}
	page = dates[start:end]
	return page, EncodeDateToken(page[len(page)-1]), nil
}
