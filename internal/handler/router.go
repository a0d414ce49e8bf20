package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/citizenconnect/gujarat-guide/backend/internal/handler/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/handler/guide"
	"github.com/citizenconnect/gujarat-guide/backend/internal/handler/live"
	"github.com/citizenconnect/gujarat-guide/backend/internal/handler/stream"
	"github.com/citizenconnect/gujarat-guide/backend/internal/middleware"
	guideModel "github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	chatService "github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
	"github.com/citizenconnect/gujarat-guide/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(catalog guideModel.Catalog, chatSvc *chatService.Service, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.Client)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	guideHandler := guide.New(catalog)
	chatHandler := chat.New(chatSvc, catalog, logger)
	streamHandler := stream.New(chatSvc, logger)
	liveHandler := live.NewWebSocketHandler(chatSvc, catalog, logger)

	r.Route("/api", func(api chi.Router) {
		guideHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)

		// Server-Sent Events for one question at a time
		api.Method(http.MethodGet, "/stream", streamHandler)

		liveHandler.RegisterRoutes(api)
	})

	return r
}
