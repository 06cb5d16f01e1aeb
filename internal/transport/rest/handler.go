// Package rest exposes the messaging-provider webhook over HTTP. It owns the
// provider encoding: inbound Twilio form posts, outbound TwiML documents.
package rest

import (
	"encoding/xml"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/savastore/whatsbot/internal/service"
	"github.com/savastore/whatsbot/pkg/web"
)

// apology is sent whenever a turn cannot be processed; the session is left
// unchanged in that case.
const apology = "Desculpe, houve um erro. Tente novamente ou fale com um atendente."

type Handler struct {
	service  service.DialogueService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service service.DialogueService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the bot.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/webhook", h.Webhook)
	r.Get("/healthz", h.HealthCheck)
}

// webhookRequest is the subset of the provider's form payload the bot uses.
type webhookRequest struct {
	From string `validate:"required,max=64"`
	Body string `validate:"max=4096"`
}

// twimlResponse is the provider reply document: one <Message> per outbound
// message segment.
type twimlResponse struct {
	XMLName  xml.Name       `xml:"Response"`
	Messages []twimlMessage `xml:"Message"`
}

type twimlMessage struct {
	Body string `xml:"Body"`
}

// Webhook handles one inbound message and answers with a TwiML document.
// Faults never escape: any processing error turns into a generic apology so
// the provider always receives a well-formed reply.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	if err := r.ParseForm(); err != nil {
		mLogger.WarnContext(r.Context(), "Malformed webhook form", "error", err)
		h.respondTwiML(w, mLogger, []string{apology})
		return
	}
	req := webhookRequest{
		From: r.PostFormValue("From"),
		Body: r.PostFormValue("Body"),
	}
	if err := h.validate.Struct(req); err != nil {
		mLogger.WarnContext(r.Context(), "Invalid webhook payload", "error", err)
		h.respondTwiML(w, mLogger, []string{apology})
		return
	}

	mLogger.DebugContext(r.Context(), "Received inbound message", "from", req.From)
	replies, err := h.service.Process(r.Context(), req.From, req.Body)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error processing inbound message", "from", req.From, "error", err)
		h.respondTwiML(w, mLogger, []string{apology})
		return
	}
	h.respondTwiML(w, mLogger, replies)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// respondTwiML encodes the outbound messages as a TwiML <Response> document.
func (h *Handler) respondTwiML(w http.ResponseWriter, logger *slog.Logger, messages []string) {
	resp := twimlResponse{Messages: make([]twimlMessage, 0, len(messages))}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, twimlMessage{Body: m})
	}

	body, err := xml.Marshal(resp)
	if err != nil {
		logger.Error("Error encoding TwiML response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(body)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID, _ := web.GetRequestID(r.Context())
	return h.logger.With("request_id", reqID)
}
