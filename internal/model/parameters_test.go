package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParametersCoercesPlatformValues(t *testing.T) {
	got := ParseParameters(map[string]any{
		"event_type":        "group-meditation",
		"event_count":       float64(25),
		"coordinator_name":  map[string]any{"name": "Asha"},
		"event_date":        map[string]any{"date_time": "2024-06-01T10:00:00+05:30"},
		"event_city":        []any{"Chennai", "Madurai"},
		"coordinator_phone": "  ",
		"event_feedback":    nil,
		"unexpected":        "ignored",
	})

	assert.Equal(t, ParameterSet{
		FieldEventType:       "group-meditation",
		FieldEventCount:      "25",
		FieldCoordinatorName: "Asha",
		FieldEventDate:       "2024-06-01T10:00:00+05:30",
		FieldCity:            "Chennai",
	}, got)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"integral float", float64(2000), "2000"},
		{"fractional float", 2.5, "2.5"},
		{"int", 7, "7"},
		{"bool", true, "true"},
		{"empty list", []any{}, ""},
		{"nested list", []any{[]any{"x"}}, "x"},
		{"string list", []string{"a", "b"}, "a"},
		{"amount object", map[string]any{"amount": float64(3)}, "3"},
		{"unknown object", map[string]any{"foo": "bar"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerce(tt.in))
		})
	}
}

func TestParameterSetMergeKeepsEarlierValues(t *testing.T) {
	base := ParameterSet{FieldEventType: "Yoga", FieldCity: "Pune"}
	merged := base.Merge(ParameterSet{FieldCity: "Mumbai", FieldEventCount: "10"})

	assert.Equal(t, "Yoga", merged.Get(FieldEventType))
	assert.Equal(t, "Mumbai", merged.Get(FieldCity))
	assert.Equal(t, "10", merged.Get(FieldEventCount))
	assert.Equal(t, "Pune", base.Get(FieldCity), "merge must not modify the receiver")
}

func TestParameterSetSetBlankDeletes(t *testing.T) {
	p := ParameterSet{FieldCity: "Pune"}
	p.Set(FieldCity, "   ")
	assert.False(t, p.Has(FieldCity))

	var empty ParameterSet
	assert.Equal(t, "", empty.Get(FieldCity))
}

func TestCategoryProfiles(t *testing.T) {
	branched := map[Category]string{
		CategorySConnectHelp:    "HELP",
		CategorySConnectHeart:   "HEART",
		CategorySConnectInspire: "INSPIRE",
		CategorySConnectTHWC:    "THWC",
	}
	for c, code := range branched {
		p := c.Profile()
		assert.Equal(t, CategorySConnect, p.Umbrella, c)
		assert.Equal(t, code, p.SubType, c)
	}

	p := CategoryYoga.Profile()
	assert.Equal(t, CategoryYoga, p.Umbrella)
	assert.Empty(t, p.SubType)
	assert.Equal(t, "yoga@heartfulness.org", p.Contact)

	assert.True(t, CategoryGroupMeditation.Profile().SingleSession)
	assert.True(t, CategoryUConnect.Profile().Redirect)
	assert.NotEmpty(t, CategoryUConnect.RedirectMessage())
	assert.Empty(t, CategoryYoga.RedirectMessage())

	unknown := Category("Something New")
	require.False(t, unknown.IsKnown())
	assert.Equal(t, unknown, unknown.Profile().Umbrella)
	assert.Empty(t, unknown.Profile().Contact)
}
