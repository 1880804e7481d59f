package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfn-events/event-report-bot/internal/model"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return New(time.UTC, func() time.Time { return fixedNow })
}

func TestCleanDate(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"past date", "2024-03-01", "2024-03-01"},
		{"previous year", "2023-12-31", "2023-12-31"},
		{"next year in the past once clamped", "2025-03-01", "2024-03-01"},
		{"next year still in the future", "2025-12-20", "2024-06-15"},
		{"later this year", "2024-09-01", "2024-06-15"},
		{"platform timestamp keeps its zone", "2024-05-01T23:30:00+05:30", "2024-05-01"},
		{"today", "2024-06-15", "2024-06-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.CleanDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanDateIsIdempotent(t *testing.T) {
	n := newTestNormalizer()
	for _, in := range []string{"2024-01-31", "2023-07-04", "2025-02-10", "2024-06-15"} {
		once, err := n.CleanDate(in)
		require.NoError(t, err)
		twice, err := n.CleanDate(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, in)
	}
}

func TestCleanDateRejectsGarbage(t *testing.T) {
	n := newTestNormalizer()
	for _, in := range []string{"", "   ", "not a date"} {
		_, err := n.CleanDate(in)
		assert.True(t, errors.Is(err, ErrInvalidDate), in)
	}
}

func TestCount(t *testing.T) {
	n := newTestNormalizer()

	got, err := n.Count("25")
	require.NoError(t, err)
	assert.Equal(t, 25, got)

	got, err = n.Count(" 2000.0 ")
	require.NoError(t, err)
	assert.Equal(t, 2000, got)

	for _, in := range []string{"-1", "2.5", "many", ""} {
		_, err := n.Count(in)
		assert.ErrorIs(t, err, ErrInvalidCount, in)
	}
}

func TestSanitizeDropsUnparseableValues(t *testing.T) {
	n := newTestNormalizer()
	in := model.ParameterSet{
		model.FieldEventDate:  "someday",
		model.FieldEventCount: "lots",
		model.FieldCity:       "Chennai",
	}

	out, dropped := n.Sanitize(in)

	assert.Equal(t, model.ParameterSet{model.FieldCity: "Chennai"}, out)
	assert.ElementsMatch(t, []model.Field{model.FieldEventDate, model.FieldEventCount}, dropped)
	assert.Len(t, in, 3, "input must be left untouched")

	out, dropped = n.Sanitize(model.ParameterSet{model.FieldEventCount: "12"})
	assert.Empty(t, dropped)
	assert.Equal(t, "12", out.Get(model.FieldEventCount))
}

func TestBranch(t *testing.T) {
	subPrograms := map[model.Category]string{
		model.CategorySConnectHelp:    "HELP",
		model.CategorySConnectHeart:   "HEART",
		model.CategorySConnectInspire: "INSPIRE",
		model.CategorySConnectTHWC:    "THWC",
	}
	for c, code := range subPrograms {
		umbrella, subType := Branch(c)
		assert.Equal(t, model.CategorySConnect, umbrella)
		assert.Equal(t, code, subType)
	}

	for _, c := range []model.Category{model.CategoryYoga, model.CategorySConnect, "anything"} {
		umbrella, subType := Branch(c)
		assert.Equal(t, c, umbrella)
		assert.Empty(t, subType)
	}
}

func TestContact(t *testing.T) {
	assert.Equal(t, "sconnect@heartfulness.org", Contact(model.CategorySConnect))
	assert.Empty(t, Contact(model.CategoryOther))
}
