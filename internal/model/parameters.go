package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names a single datum the conversation collects.
type Field string

const (
	FieldEventType        Field = "event_type"
	FieldEventDay         Field = "event_day"
	FieldEventCount       Field = "event_count"
	FieldCoordinatorName  Field = "coordinator_name"
	FieldCoordinatorPhone Field = "coordinator_phone"
	FieldEventDate        Field = "event_date"
	FieldInstitution      Field = "event_institution"
	FieldCity             Field = "event_city"
	FieldCountry          Field = "country"
	FieldTrainerID        Field = "trainer_id"
	FieldFeedback         Field = "event_feedback"
)

// Fields lists every field of the report schema in collection order.
var Fields = []Field{
	FieldEventType,
	FieldEventDay,
	FieldEventCount,
	FieldCoordinatorName,
	FieldCoordinatorPhone,
	FieldEventDate,
	FieldInstitution,
	FieldCity,
	FieldCountry,
	FieldTrainerID,
	FieldFeedback,
}

// IsKnown reports whether f belongs to the report schema.
func (f Field) IsKnown() bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}

// ParameterSet holds the collected values keyed by field. Values are stored
// already coerced to strings; an empty string is never stored.
type ParameterSet map[Field]string

// Get returns the value of f, or "" when absent.
func (p ParameterSet) Get(f Field) string {
	if p == nil {
		return ""
	}
	return p[f]
}

// Has reports whether f is present.
func (p ParameterSet) Has(f Field) bool {
	return p.Get(f) != ""
}

// Set stores v under f. Blank values remove the field.
func (p ParameterSet) Set(f Field, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		delete(p, f)
		return
	}
	p[f] = v
}

// Clone returns an independent copy.
func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p overlaid with the present values of next.
// Fields absent from next keep their previous value.
func (p ParameterSet) Merge(next ParameterSet) ParameterSet {
	out := p.Clone()
	for k, v := range next {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Category returns the event type as a Category.
func (p ParameterSet) Category() Category {
	return Category(p.Get(FieldEventType))
}

// ParseParameters coerces the loosely typed parameter map sent by the NLU
// platform into a ParameterSet. Unknown keys are ignored. Sequences collapse
// to their first element, person objects to their name and date objects to
// their date value.
func ParseParameters(raw map[string]any) ParameterSet {
	out := make(ParameterSet, len(raw))
	for k, v := range raw {
		f := Field(k)
		if !f.IsKnown() {
			continue
		}
		out.Set(f, coerce(v))
	}
	return out
}

func coerce(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		if len(t) == 0 {
			return ""
		}
		return coerce(t[0])
	case []string:
		if len(t) == 0 {
			return ""
		}
		return t[0]
	case map[string]any:
		for _, key := range []string{"name", "date_time", "startDate", "date", "city", "amount"} {
			if inner, ok := t[key]; ok {
				return coerce(inner)
			}
		}
		return ""
	default:
		return fmt.Sprint(t)
	}
}
