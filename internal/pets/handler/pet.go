package handler

import (
	"encoding/json"
	"net/http"

	"pawmarket/internal/pets/service"
	httputil "pawmarket/pkg/http"
	"pawmarket/pkg/logger"
	"pawmarket/pkg/middleware"
	"pawmarket/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PetHandler struct {
	service service.PetsService
	log     *logger.Logger
}

func NewPetHandler(service service.PetsService, log *logger.Logger) *PetHandler {
	return &PetHandler{
		service: service,
		log:     log,
	}
}

func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var pet model.Pet
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	// Ownership comes from the gateway identity, never from the payload.
	ownerID := middleware.CustomerIDFromContext(r.Context())

	if err := h.service.Create(r.Context(), ownerID, &pet); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, pet); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *PetHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := middleware.CustomerIDFromContext(r.Context())

	pet, err := h.service.GetByID(r.Context(), ownerID, ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, pet); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PetHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID := middleware.CustomerIDFromContext(r.Context())

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	pets, total, err := h.service.List(r.Context(), ownerID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, pets, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.PetUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	ownerID := middleware.CustomerIDFromContext(r.Context())

	if err := h.service.Update(r.Context(), ownerID, ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *PetHandler) Deactivate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ownerID := middleware.CustomerIDFromContext(r.Context())

	if err := h.service.Deactivate(r.Context(), ownerID, ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Deactivate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *PetHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/pets", h.Create)
	router.GET("/api/v1/pets", h.List)
	router.GET("/api/v1/pets/id/:id", h.GetByID)
	router.PATCH("/api/v1/pets/id/:id", h.Update)
	router.DELETE("/api/v1/pets/id/:id", h.Deactivate)
}
