package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-weather-chat/internal/types"
)

type stubPipelineService struct {
	lastMessage string
	response    *types.ChatResponse
}

func (s *stubPipelineService) ProcessTurn(_ context.Context, message string) *types.ChatResponse {
	s.lastMessage = message
	return s.response
}

func TestProcessChatHandler(t *testing.T) {
	stub := &stubPipelineService{
		response: &types.ChatResponse{
			RequestID: "req-1",
			Intent:    types.IntentWeather,
			Response:  "Here's the current weather for New York and 4 nearby areas.",
			Locations: types.LocationSet{"New York"},
		},
	}
	handler := NewChatHandler(stub, testLogger())

	body, _ := json.Marshal(types.ChatRequest{Message: "What's the weather in New York?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ProcessChat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "What's the weather in New York?", stub.lastMessage)

	var got types.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, types.IntentWeather, got.Intent)
	assert.Equal(t, "req-1", got.RequestID)
}

func TestProcessChatRejectsEmptyMessage(t *testing.T) {
	handler := NewChatHandler(&stubPipelineService{}, testLogger())

	body, _ := json.Marshal(types.ChatRequest{Message: "   "})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ProcessChat(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessChatRejectsBadJSON(t *testing.T) {
	handler := NewChatHandler(&stubPipelineService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.ProcessChat(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
