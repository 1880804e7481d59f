// Package record assembles the persisted event record from a complete
// parameter set.
package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hfn-events/event-report-bot/internal/model"
	"github.com/hfn-events/event-report-bot/internal/normalize"
)

const (
	// UnknownSource is stored when the request names no originating channel.
	UnknownSource = "Unknown"
	// ConsoleSourceData is stored as payload text when there is no source.
	ConsoleSourceData = "Maybe DialogFlow Console"
	// SingleSessionDay is the day label of single-session categories.
	SingleSessionDay = "1-day-event"
)

// PlaceResolver resolves places and countries.
type PlaceResolver interface {
	Lookup(raw string) model.Place
	Country(raw string) (string, bool)
}

// IDGenerator returns a new globally unique record identifier.
type IDGenerator func() string

// Assembler builds EventRecords. It has no side effects besides the injected
// identifier generator and clock.
type Assembler struct {
	places     PlaceResolver
	normalizer *normalize.Normalizer
	newID      IDGenerator
	now        func() time.Time
}

// NewAssembler creates an assembler. A nil generator uses random UUIDs and a
// nil clock uses time.Now.
func NewAssembler(places PlaceResolver, n *normalize.Normalizer, newID IDGenerator, now func() time.Time) *Assembler {
	if newID == nil {
		newID = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &Assembler{places: places, normalizer: n, newID: newID, now: now}
}

// Assemble builds the record for a complete parameter set.
func (a *Assembler) Assemble(known model.ParameterSet, prov model.Provenance) (model.EventRecord, error) {
	date, err := a.normalizer.CleanDate(known.Get(model.FieldEventDate))
	if err != nil {
		return model.EventRecord{}, fmt.Errorf("assemble record: %w", err)
	}
	count, err := a.normalizer.Count(known.Get(model.FieldEventCount))
	if err != nil {
		return model.EventRecord{}, fmt.Errorf("assemble record: %w", err)
	}

	category := known.Category()
	umbrella, subType := normalize.Branch(category)

	day := known.Get(model.FieldEventDay)
	if category.Profile().SingleSession {
		day = SingleSessionDay
	}

	place := a.places.Lookup(known.Get(model.FieldCity))
	country := place.Country
	if c, ok := a.places.Country(known.Get(model.FieldCountry)); ok {
		country = c
	}

	source, sourceData, err := provenance(prov)
	if err != nil {
		return model.EventRecord{}, fmt.Errorf("assemble record: %w", err)
	}

	return model.EventRecord{
		ID:          a.newID(),
		Name:        known.Get(model.FieldCoordinatorName),
		Phone:       known.Get(model.FieldCoordinatorPhone),
		Type:        string(umbrella),
		SubType:     subType,
		EventDay:    day,
		Count:       count,
		Date:        date,
		Institution: known.Get(model.FieldInstitution),
		City:        strings.TrimSpace(place.City),
		Zone:        strings.TrimSpace(place.Zone),
		Country:     strings.TrimSpace(country),
		TrainerID:   known.Get(model.FieldTrainerID),
		Feedback:    known.Get(model.FieldFeedback),
		Source:      source,
		SourceData:  sourceData,
		RecordedAt:  a.now().UTC(),
	}, nil
}

func provenance(p model.Provenance) (string, string, error) {
	if p.Source == "" {
		return UnknownSource, ConsoleSourceData, nil
	}
	data, err := json.Marshal(p.Payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize source payload: %w", err)
	}
	return p.Source, string(data), nil
}
