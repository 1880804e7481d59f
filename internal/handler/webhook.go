// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hfn-events/event-report-bot/internal/dialogue"
	"github.com/hfn-events/event-report-bot/internal/middleware"
	"github.com/hfn-events/event-report-bot/internal/model"
	"github.com/hfn-events/event-report-bot/internal/service"
	"github.com/hfn-events/event-report-bot/pkg/logger"
)

const (
	// followUpLifespan is the number of turns the confirmation follow-up
	// context stays open.
	followUpLifespan = 2
	// endSessionLifespan keeps the end_session context open after a
	// redirect so the closing turn lands on it.
	endSessionLifespan = 2
)

// WebhookHandler handles fulfillment requests from the NLU platform.
type WebhookHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(svc *service.ConversationService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: svc,
		logger:  log,
	}
}

// Fulfill handles POST /webhook
func (h *WebhookHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := SessionID(req.Session)
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	turn := dialogue.Turn{
		SessionID:  sessionID,
		ResponseID: req.ResponseID,
		Intent:     req.QueryResult.Intent.DisplayName,
		Parameters: model.ParseParameters(req.QueryResult.Parameters),
		Provenance: req.Provenance(),
	}

	log := h.logger.WithTurn(middleware.GetCorrelationID(ctx), sessionID, turn.Intent)

	reply, err := h.service.Handle(ctx, turn)
	if err != nil {
		log.Error("failed to handle turn", zap.Error(err))
		writeJSON(w, http.StatusOK, textResponse(dialogue.Apology()))
		return
	}

	writeJSON(w, http.StatusOK, Render(req.Session, req.QueryResult.LanguageCode, reply))
}

// SessionID returns the last segment of a session path such as
// projects/p/agent/sessions/abc.
func SessionID(session string) string {
	session = strings.TrimRight(strings.TrimSpace(session), "/")
	if i := strings.LastIndex(session, "/"); i >= 0 {
		return session[i+1:]
	}
	return session
}

// Render converts a handled turn into the fulfillment response.
func Render(session, languageCode string, reply *service.Reply) model.WebhookResponse {
	resp := textResponse(reply.Outcome.Text)
	if reply.Outcome.Restart {
		resp.FollowupEventInput = &model.EventInput{
			Name:         model.FollowUpWelcome,
			LanguageCode: languageCode,
		}
	}
	if session == "" {
		return resp
	}

	state := reply.State
	params := contextParameters(state.Known)

	info := model.OutputContext{Name: contextName(session, model.ContextEventInfo)}
	if state.Active() {
		info.LifespanCount = state.Lifespan
		info.Parameters = params
	}
	followUp := model.OutputContext{Name: contextName(session, dialogue.ContextFollowUp)}
	if state.FollowUp != "" {
		followUp.LifespanCount = followUpLifespan
		followUp.Parameters = params
	}
	resp.OutputContexts = []model.OutputContext{info, followUp}

	switch {
	case reply.Outcome.Kind == dialogue.OutcomeTerminate:
		resp.OutputContexts = append(resp.OutputContexts,
			model.OutputContext{Name: contextName(session, model.ContextEndSession), LifespanCount: endSessionLifespan},
			model.OutputContext{Name: contextName(session, model.ParamsContext(model.FieldEventCount))},
			model.OutputContext{Name: contextName(session, model.ContextReady)},
		)
	case state.Pending != "":
		// The platform only binds an answer to an optional slot while the
		// slot's params context is open.
		resp.OutputContexts = append(resp.OutputContexts, model.OutputContext{
			Name:          contextName(session, model.ParamsContext(state.Pending)),
			LifespanCount: state.Lifespan,
			Parameters:    params,
		})
		if state.Pending == model.FieldEventDay {
			resp.OutputContexts = append(resp.OutputContexts,
				model.OutputContext{Name: contextName(session, model.ParamsContext(model.FieldEventCount))})
		}
	}
	return resp
}

func textResponse(text string) model.WebhookResponse {
	resp := model.WebhookResponse{FulfillmentText: text}
	if text != "" {
		resp.FulfillmentMessages = []model.FulfillmentMessage{
			{Text: &model.FulfillmentText{Text: []string{text}}},
		}
	}
	return resp
}

func contextName(session, name string) string {
	return strings.TrimRight(session, "/") + "/contexts/" + name
}

func contextParameters(known model.ParameterSet) map[string]any {
	if len(known) == 0 {
		return nil
	}
	params := make(map[string]any, len(known))
	for f, v := range known {
		params[string(f)] = v
	}
	return params
}
