package model

import "time"

// Unknown is the sentinel stored when a place cannot be resolved.
const Unknown = "unknown"

// EventRecord is a completed event report. It is built once, on the
// confirming turn, and never updated.
type EventRecord struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Phone       string    `json:"phone" bson:"phone"`
	Type        string    `json:"type" bson:"type"`
	SubType     string    `json:"s_connect_type" bson:"s_connect_type"`
	EventDay    string    `json:"event_day" bson:"event_day"`
	Count       int       `json:"count" bson:"count"`
	Date        string    `json:"date" bson:"date"`
	Institution string    `json:"institution" bson:"institution"`
	City        string    `json:"city" bson:"city"`
	Zone        string    `json:"zone" bson:"zone"`
	Country     string    `json:"country" bson:"country"`
	TrainerID   string    `json:"trainer_id" bson:"trainer_id"`
	Feedback    string    `json:"feedback" bson:"feedback"`
	Source      string    `json:"source" bson:"source"`
	SourceData  string    `json:"source_data" bson:"source_data"`
	RecordedAt  time.Time `json:"recorded_at" bson:"recorded_at"`
}

// Provenance records which channel originated a submission.
type Provenance struct {
	Source  string
	Payload any
}

// Place is a resolved location.
type Place struct {
	City    string `json:"city" yaml:"city"`
	Zone    string `json:"zone" yaml:"zone"`
	Country string `json:"country" yaml:"country"`
}
