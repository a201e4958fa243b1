package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	authmiddleware "staywise/internal/auth/middleware"
	"staywise/internal/properties/service"
	"staywise/pkg/contracts"
	apperrors "staywise/pkg/errors"
	httputil "staywise/pkg/http"
	"staywise/pkg/logger"
	"staywise/pkg/model"
)

type PropertyHandler struct {
	service      service.PropertyService
	log          *logger.Logger
	authenticate contracts.Middleware
	requireAdmin contracts.Middleware
}

func NewPropertyHandler(service service.PropertyService, log *logger.Logger, authenticate, requireAdmin contracts.Middleware) *PropertyHandler {
	return &PropertyHandler{
		service:      service,
		log:          log,
		authenticate: authenticate,
		requireAdmin: requireAdmin,
	}
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	filter, err := extractPropertyFilter(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	properties, total, err := h.service.List(r.Context(), filter, page, limit)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, properties, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *PropertyHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	property, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := authmiddleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "Create", apperrors.Unauthorized("Access denied. No token provided."))
		return
	}

	var property model.Property
	if err := json.NewDecoder(r.Body).Decode(&property); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), identity, &property)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.PropertyUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	property, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, property); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *PropertyHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *PropertyHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/properties", h.List)
	router.GET("/api/v1/properties/:id", h.GetByID)
	router.POST("/api/v1/properties", h.authenticate(h.requireAdmin(h.Create)))
	router.PATCH("/api/v1/properties/:id", h.authenticate(h.requireAdmin(h.Update)))
}

func extractPropertyFilter(r *http.Request) (model.PropertyFilter, error) {
	query := r.URL.Query()

	filter := model.PropertyFilter{
		Location:     query.Get("location"),
		PropertyType: query.Get("propertyType"),
	}

	if s := query.Get("minPrice"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid minPrice parameter: " + s)
		}
		filter.MinPrice = &v
	}
	if s := query.Get("maxPrice"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid maxPrice parameter: " + s)
		}
		filter.MaxPrice = &v
	}
	if s := query.Get("guests"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return filter, apperrors.InvalidInput("invalid guests parameter: " + s)
		}
		filter.Guests = &v
	}

	return filter, nil
}
