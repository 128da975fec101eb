package pipeline

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-weather-chat/internal/api"
	"github.com/FACorreiaa/go-weather-chat/internal/types"
)

// ChatHandler exposes the pipeline over HTTP for the rendering collaborator.
type ChatHandler struct {
	pipelineService PipelineService
	logger          *slog.Logger
}

// NewChatHandler creates a new chat handler instance.
func NewChatHandler(pipelineService PipelineService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		pipelineService: pipelineService,
		logger:          logger,
	}
}

// ProcessChat handles POST /api/v1/chat.
func (h *ChatHandler) ProcessChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Pipeline").Start(r.Context(), "ProcessChat")
	defer span.End()

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		span.SetStatus(codes.Error, "empty message")
		api.ErrorResponse(w, r, http.StatusBadRequest, "message must not be empty")
		return
	}

	response := h.pipelineService.ProcessTurn(ctx, req.Message)

	span.SetAttributes(
		attribute.String("chat.intent", string(response.Intent)),
		attribute.Bool("chat.degraded", response.Degraded),
	)
	span.SetStatus(codes.Ok, "turn processed")
	api.WriteJSONResponse(w, r, http.StatusOK, response)
}
