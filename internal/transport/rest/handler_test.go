package rest

import (
	"context"
	"encoding/xml"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDialogueService struct {
	replies      []string
	err          error
	gotCallerID  string
	gotText      string
	processCalls int
}

func (m *mockDialogueService) Process(_ context.Context, callerID, text string) ([]string, error) {
	m.processCalls++
	m.gotCallerID = callerID
	m.gotText = text
	return m.replies, m.err
}

func newTestRouter(svc *mockDialogueService) *chi.Mux {
	h := NewHandler(svc, slog.Default())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func postWebhook(t *testing.T, router *chi.Mux, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeTwiML(t *testing.T, body string) twimlResponse {
	t.Helper()
	var resp twimlResponse
	require.NoError(t, xml.Unmarshal([]byte(body), &resp))
	return resp
}

func Test_Webhook_RepliesWithTwiML(t *testing.T) {
	// given
	svc := &mockDialogueService{replies: []string{"Olá!", "O que você quer?"}}
	router := newTestRouter(svc)

	// when
	rec := postWebhook(t, router, url.Values{
		"From": {"whatsapp:+5511999990000"},
		"Body": {"oi"},
	})

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), xml.Header))

	resp := decodeTwiML(t, rec.Body.String())
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "Olá!", resp.Messages[0].Body)
	assert.Equal(t, "O que você quer?", resp.Messages[1].Body)

	assert.Equal(t, "whatsapp:+5511999990000", svc.gotCallerID)
	assert.Equal(t, "oi", svc.gotText)
}

func Test_Webhook_EscapesMarkupInReplies(t *testing.T) {
	// given a reply containing characters meaningful to XML
	svc := &mockDialogueService{replies: []string{`iPhone 15 <128GB> & "5G"`}}
	router := newTestRouter(svc)

	// when
	rec := postWebhook(t, router, url.Values{
		"From": {"whatsapp:+5511999990000"},
		"Body": {"preço"},
	})

	// then: the document still round-trips to the original text
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeTwiML(t, rec.Body.String())
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, `iPhone 15 <128GB> & "5G"`, resp.Messages[0].Body)
}

func Test_Webhook_ServiceErrorTurnsIntoApology(t *testing.T) {
	// given
	svc := &mockDialogueService{err: errors.New("session store unavailable")}
	router := newTestRouter(svc)

	// when
	rec := postWebhook(t, router, url.Values{
		"From": {"whatsapp:+5511999990000"},
		"Body": {"oi"},
	})

	// then: the provider still gets a well-formed 200 reply
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeTwiML(t, rec.Body.String())
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, apology, resp.Messages[0].Body)
}

func Test_Webhook_MissingSenderTurnsIntoApology(t *testing.T) {
	// given
	svc := &mockDialogueService{replies: []string{"should not be reached"}}
	router := newTestRouter(svc)

	// when: no From field
	rec := postWebhook(t, router, url.Values{
		"Body": {"oi"},
	})

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeTwiML(t, rec.Body.String())
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, apology, resp.Messages[0].Body)
	assert.Zero(t, svc.processCalls)
}

func Test_Webhook_EmptyBodyIsForwarded(t *testing.T) {
	// given: an empty Body is a valid turn, only From is required
	svc := &mockDialogueService{replies: []string{"Desculpe, não entendi."}}
	router := newTestRouter(svc)

	// when
	rec := postWebhook(t, router, url.Values{
		"From": {"whatsapp:+5511999990000"},
	})

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.processCalls)
	assert.Equal(t, "", svc.gotText)
}

func Test_HealthCheck(t *testing.T) {
	// given
	router := newTestRouter(&mockDialogueService{})

	// when
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
