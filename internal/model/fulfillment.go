package model

// Intent names routed by the webhook.
const (
	IntentWelcome    = "Default Welcome Intent"
	IntentEventInfo  = "event.info"
	IntentConfirm    = "event.info.yes"
	IntentDecline    = "event.info.no"
	IntentEndSession = "end_session"
)

// Output context names.
const (
	// ContextEventInfo carries the in-progress report.
	ContextEventInfo = "event_info_dialog_context"
	// ContextEndSession routes the next turn to the end_session intent.
	ContextEndSession = "end_session"
	// ContextReady marks a report whose slots are all filled.
	ContextReady = "eventinfo_ready"

	paramsContextPrefix = "event_info_dialog_params_"
)

// ParamsContext names the context that binds the next answer to field f.
func ParamsContext(f Field) string {
	return paramsContextPrefix + string(f)
}

// WebhookRequest is the fulfillment request sent by the NLU platform.
type WebhookRequest struct {
	ResponseID                  string                 `json:"responseId"`
	Session                     string                 `json:"session"`
	QueryResult                 QueryResult            `json:"queryResult"`
	OriginalDetectIntentRequest *OriginalDetectRequest `json:"originalDetectIntentRequest,omitempty"`
}

// QueryResult is the matched intent with its parameters.
type QueryResult struct {
	QueryText    string         `json:"queryText"`
	Parameters   map[string]any `json:"parameters"`
	Intent       Intent         `json:"intent"`
	LanguageCode string         `json:"languageCode,omitempty"`
}

// Intent identifies the matched intent.
type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// OriginalDetectRequest carries the originating channel and its raw payload.
type OriginalDetectRequest struct {
	Source  string         `json:"source,omitempty"`
	Version string         `json:"version,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// OutputContext is a named, expiring parameter scope.
type OutputContext struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// WebhookResponse is the fulfillment reply.
type WebhookResponse struct {
	FulfillmentText     string               `json:"fulfillmentText"`
	FulfillmentMessages []FulfillmentMessage `json:"fulfillmentMessages,omitempty"`
	OutputContexts      []OutputContext      `json:"outputContexts,omitempty"`
	FollowupEventInput  *EventInput          `json:"followupEventInput,omitempty"`
}

// FulfillmentMessage is a rich reply message.
type FulfillmentMessage struct {
	Text *FulfillmentText `json:"text,omitempty"`
}

// FulfillmentText is a text reply.
type FulfillmentText struct {
	Text []string `json:"text"`
}

// EventInput triggers a follow-up event.
type EventInput struct {
	Name         string `json:"name"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// Provenance extracts the request source and raw payload data.
func (r *WebhookRequest) Provenance() Provenance {
	if r.OriginalDetectIntentRequest == nil {
		return Provenance{}
	}
	return Provenance{
		Source:  r.OriginalDetectIntentRequest.Source,
		Payload: r.OriginalDetectIntentRequest.Payload["data"],
	}
}
