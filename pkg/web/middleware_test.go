package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RequestIDInjector_MakesIDReadable(t *testing.T) {
	// given a handler that reads the id back from the context
	var gotID string
	var found bool
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotID, found = GetRequestID(r.Context())
	})

	// when
	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	RequestIDInjector(next).ServeHTTP(rec, req)

	// then: a fresh id was generated and is retrievable downstream
	require.True(t, found)
	assert.NotEmpty(t, gotID)
}

func Test_RequestIDInjector_GeneratesDistinctIDs(t *testing.T) {
	// given
	ids := make(map[string]bool)
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		id, _ := GetRequestID(r.Context())
		ids[id] = true
	})
	handler := RequestIDInjector(next)

	// when
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// then
	assert.Len(t, ids, 3)
}

func Test_Recoverer_ConvertsPanicTo500(t *testing.T) {
	// given
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("boom")
	})

	// when
	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	Recoverer(logger)(next).ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func Test_RespondJSON(t *testing.T) {
	// given
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// when
	rec := httptest.NewRecorder()
	RespondJSON(rec, logger, http.StatusOK, map[string]string{"status": "ok"})

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func Test_RespondJSON_NilPayload(t *testing.T) {
	// given
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// when
	rec := httptest.NewRecorder()
	RespondJSON(rec, logger, http.StatusNoContent, nil)

	// then
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
