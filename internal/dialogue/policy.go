// Package dialogue drives the multi-turn event report conversation: which
// field to ask next, when the report is complete, and how it is committed.
package dialogue

import (
	"github.com/hfn-events/event-report-bot/internal/model"
)

// ActionKind is the decision of the slot policy.
type ActionKind int

const (
	ActionAsk ActionKind = iota
	ActionTerminate
	ActionComplete
)

func (k ActionKind) String() string {
	switch k {
	case ActionAsk:
		return "ask"
	case ActionTerminate:
		return "terminate"
	case ActionComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Action is the next step for a partially filled report.
type Action struct {
	Kind ActionKind
	// Field and Prompt are set for ActionAsk.
	Field  model.Field
	Prompt string
	// Message is set for ActionTerminate.
	Message string
}

// Rule declares one field of the report. Applies may consult earlier fields;
// a nil Applies means the field is always required.
type Rule struct {
	Field   model.Field
	Prompt  string
	Applies func(known model.ParameterSet) bool
}

// Policy is an ordered list of rules.
type Policy struct {
	rules []Rule
}

// NewPolicy creates a policy evaluating rules in the given order.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy returns the event report policy.
func DefaultPolicy() *Policy {
	return NewPolicy(
		Rule{Field: model.FieldEventType, Prompt: promptEventType},
		Rule{Field: model.FieldEventDay, Prompt: promptEventDay, Applies: multiSession},
		Rule{Field: model.FieldEventCount, Prompt: promptEventCount},
		Rule{Field: model.FieldCoordinatorName, Prompt: promptCoordinatorName},
		Rule{Field: model.FieldCoordinatorPhone, Prompt: promptCoordinatorPhone},
		Rule{Field: model.FieldEventDate, Prompt: promptEventDate},
		Rule{Field: model.FieldInstitution, Prompt: promptInstitution},
		Rule{Field: model.FieldCity, Prompt: promptCity},
		Rule{Field: model.FieldCountry, Prompt: promptCountry},
		Rule{Field: model.FieldTrainerID, Prompt: promptTrainerID},
		Rule{Field: model.FieldFeedback, Prompt: promptFeedback},
	)
}

func multiSession(known model.ParameterSet) bool {
	return !known.Category().Profile().SingleSession
}

// Next decides what to do with known. A redirect category terminates the
// conversation whatever else is present.
func (p *Policy) Next(known model.ParameterSet) Action {
	if msg := known.Category().RedirectMessage(); msg != "" {
		return Action{Kind: ActionTerminate, Message: msg}
	}

	for _, r := range p.rules {
		if !r.applies(known) {
			continue
		}
		if !known.Has(r.Field) {
			return Action{Kind: ActionAsk, Field: r.Field, Prompt: r.Prompt}
		}
	}
	return Action{Kind: ActionComplete}
}

// Missing lists every applicable field absent from known, in policy order.
func (p *Policy) Missing(known model.ParameterSet) []model.Field {
	var out []model.Field
	for _, r := range p.rules {
		if r.applies(known) && !known.Has(r.Field) {
			out = append(out, r.Field)
		}
	}
	return out
}

// Prompt returns the question for f, or "" when f has no rule.
func (p *Policy) Prompt(f model.Field) string {
	for _, r := range p.rules {
		if r.Field == f {
			return r.Prompt
		}
	}
	return ""
}

func (r Rule) applies(known model.ParameterSet) bool {
	return r.Applies == nil || r.Applies(known)
}
