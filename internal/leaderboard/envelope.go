package leaderboard

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"donatewall/internal/domain"
)

// Column positions in the published sheet.
const (
	colName = iota
	colTier
	colAmount
	colDate
	colShow
	colAnonymous
)

var (
	gvizEnvelope    = regexp.MustCompile(`google\.visualization\.Query\.setResponse\(([\s\S]*)\);?`)
	genericEnvelope = regexp.MustCompile(`^[^(]*\(([\s\S]*)\)\s*;?\s*$`)
	leadingFloat    = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	gvizDate        = regexp.MustCompile(`^Date\((\d+),\s*(\d+),\s*(\d+)`)
)

type gvizResponse struct {
	Status string     `json:"status"`
	Table  *gvizTable `json:"table"`
}

type gvizTable struct {
	Rows []gvizRow `json:"rows"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

type gvizCell struct {
	V any `json:"v"`
}

// DefaultedCell describes a cell that was replaced by its column default.
type DefaultedCell struct {
	Row    int
	Column string
	Raw    any
}

// Parse extracts leaderboard entries from a published sheet response. Rows
// not flagged for the leaderboard are dropped; the remaining rows keep
// their source order and carry no rank. now supplies the date for rows
// without a usable date.
func Parse(raw []byte, now time.Time) ([]domain.DonationEntry, error) {
	return parse(raw, now, nil)
}

func parse(raw []byte, now time.Time, onDefault func(DefaultedCell)) ([]domain.DonationEntry, error) {
	doc, err := unwrapEnvelope(raw)
	if err != nil {
		return nil, err
	}

	var resp gvizResponse
	if err := json.Unmarshal(doc, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode table: %v", domain.ErrFeedUnavailable, err)
	}
	if resp.Table == nil {
		status := resp.Status
		if status == "" {
			status = "missing table"
		}
		return nil, fmt.Errorf("%w: unexpected response (%s)", domain.ErrFeedUnavailable, status)
	}

	today := domain.CalendarDate(now)
	report := func(row int, column string, v any) {
		if onDefault != nil {
			onDefault(DefaultedCell{Row: row, Column: column, Raw: v})
		}
	}

	entries := make([]domain.DonationEntry, 0, len(resp.Table.Rows))
	for i, row := range resp.Table.Rows {
		if !truthy(cellValue(row, colShow)) {
			continue
		}
		entry := domain.DonationEntry{
			Anonymous: truthy(cellValue(row, colAnonymous)),
		}

		entry.Name = cellString(cellValue(row, colName))
		if entry.Name == "" {
			entry.Name = domain.AnonymousName
		}

		entry.Tier = cellString(cellValue(row, colTier))
		if entry.Tier == "" {
			entry.Tier = string(domain.TierParticipant)
		}

		amountRaw := cellValue(row, colAmount)
		amount, ok := parseAmount(amountRaw)
		if !ok {
			report(i, "amount", amountRaw)
		}
		entry.Amount = amount

		dateRaw := cellValue(row, colDate)
		if date, ok := parseDate(dateRaw); ok {
			entry.Date = date
		} else {
			report(i, "date", dateRaw)
			entry.Date = today
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func unwrapEnvelope(raw []byte) ([]byte, error) {
	if m := gvizEnvelope.FindSubmatch(raw); m != nil {
		return m[1], nil
	}
	if m := genericEnvelope.FindSubmatch(raw); m != nil {
		return m[1], nil
	}
	return nil, fmt.Errorf("%w: response envelope not found", domain.ErrMalformedFeed)
}

func cellValue(row gvizRow, col int) any {
	if col >= len(row.C) || row.C[col] == nil {
		return nil
	}
	return row.C[col].V
}

// truthy accepts exactly the flags the sheet produces for a ticked box or a
// "Yes" answer.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "TRUE" || t == "Yes"
	default:
		return false
	}
}

// truthyText applies the same rule to a flag read back as text, where a JSON
// true arrives as "true".
func truthyText(s string) bool {
	return s == "true" || truthy(s)
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// parseAmount reads the leading number of a cell. Anything unusable is zero.
func parseAmount(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		m := leadingFloat.FindString(strings.TrimSpace(t))
		if m == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// parseDate accepts ISO dates, RFC 3339 timestamps and the gviz Date(y,m,d)
// literal, whose month is zero-based.
func parseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if m := gvizDate.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mon, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		t := time.Date(y, time.Month(mon+1), d, 0, 0, 0, 0, time.UTC)
		if mon < 0 || mon > 11 || t.Month() != time.Month(mon+1) || t.Day() != d {
			return time.Time{}, false
		}
		return t, true
	}
	return ParseDate(s)
}

// ParseDate parses a calendar date in one of the accepted text layouts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006/01/02", "01/02/2006"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return domain.CalendarDate(t), true
		}
	}
	return time.Time{}, false
}
