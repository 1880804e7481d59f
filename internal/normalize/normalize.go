// Package normalize cleans raw conversational values before they are shown
// back to the user or stored.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/hfn-events/event-report-bot/internal/model"
)

// DateLayout is the calendar-date format of stored dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidDate is returned for date text that cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidCount is returned for attendance that is not a whole number.
	ErrInvalidCount = errors.New("invalid count")
)

// Normalizer holds the clock and zone used for date cleaning.
type Normalizer struct {
	location *time.Location
	now      func() time.Time
}

// New creates a normalizer. A nil location means UTC and a nil clock means
// time.Now.
func New(loc *time.Location, now func() time.Time) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Normalizer{location: loc, now: now}
}

// CleanDate parses raw and returns it as YYYY-MM-DD. A year later than the
// current one is rewritten to the current year, and a date still in the
// future afterwards becomes today. Upstream extraction sometimes picks next
// year for relative phrases near a year boundary.
func (n *Normalizer) CleanDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidDate
	}

	t, err := dateparse.ParseIn(raw, n.location)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidDate, raw, err)
	}

	now := n.now().In(t.Location())
	if t.Year() > now.Year() {
		t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	if t.After(now) {
		t = now
	}

	return t.Format(DateLayout), nil
}

// Count parses an attendance figure.
func (n *Normalizer) Count(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if i, err := strconv.Atoi(raw); err == nil {
		if i < 0 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidCount, i)
		}
		return i, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, raw)
	}
	return int(f), nil
}

// Sanitize drops values that cannot be normalized so that the slot policy
// asks for them again. It returns the cleaned set and the dropped fields.
func (n *Normalizer) Sanitize(p model.ParameterSet) (model.ParameterSet, []model.Field) {
	out := p.Clone()
	var dropped []model.Field

	if out.Has(model.FieldEventDate) {
		if _, err := n.CleanDate(out.Get(model.FieldEventDate)); err != nil {
			delete(out, model.FieldEventDate)
			dropped = append(dropped, model.FieldEventDate)
		}
	}
	if out.Has(model.FieldEventCount) {
		if _, err := n.Count(out.Get(model.FieldEventCount)); err != nil {
			delete(out, model.FieldEventCount)
			dropped = append(dropped, model.FieldEventCount)
		}
	}

	return out, dropped
}

// Branch resolves a sub-program category to its umbrella category and
// sub-type code. Other categories are returned unchanged with no sub-type.
func Branch(c model.Category) (model.Category, string) {
	p := c.Profile()
	return p.Umbrella, p.SubType
}

// Contact returns the contact address of a category, or "" when none.
func Contact(c model.Category) string {
	return c.Profile().Contact
}
