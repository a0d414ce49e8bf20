package guide

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	"github.com/citizenconnect/gujarat-guide/backend/pkg/utils"
)

// Handler serves the static page catalogue.
type Handler struct {
	catalog guide.Catalog
}

// New creates the catalogue handler.
func New(catalog guide.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes mounts the catalogue routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/catalog", h.handleCatalog)
}

type catalogResponse struct {
	Page        guide.Page    `json:"page"`
	Panels      []guide.Panel `json:"panels"`
	Suggestions []string      `json:"suggestions"`
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, catalogResponse{
		Page:        h.catalog.Page(),
		Panels:      h.catalog.Panels(),
		Suggestions: h.catalog.Suggestions(),
	})
}
