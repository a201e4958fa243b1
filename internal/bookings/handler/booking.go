package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	authmiddleware "staywise/internal/auth/middleware"
	"staywise/internal/bookings/service"
	"staywise/pkg/contracts"
	apperrors "staywise/pkg/errors"
	httputil "staywise/pkg/http"
	"staywise/pkg/logger"
	"staywise/pkg/model"
)

type BookingHandler struct {
	service      service.BookingService
	log          *logger.Logger
	authenticate contracts.Middleware
	requireAdmin contracts.Middleware
}

func NewBookingHandler(service service.BookingService, log *logger.Logger, authenticate, requireAdmin contracts.Middleware) *BookingHandler {
	return &BookingHandler{
		service:      service,
		log:          log,
		authenticate: authenticate,
		requireAdmin: requireAdmin,
	}
}

// bookingRequestPayload is the wire form of an admission request. Dates are
// accepted as RFC 3339 timestamps or bare YYYY-MM-DD calendar dates.
type bookingRequestPayload struct {
	PropertyID      string `json:"propertyId"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"specialRequests"`
}

type bookingListResponse struct {
	Bookings   []model.BookingDetail `json:"bookings"`
	Pagination httputil.Pagination   `json:"pagination"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := authmiddleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "Create", apperrors.Unauthorized("Access denied. No token provided."))
		return
	}

	var payload bookingRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	req, err := payload.toRequest()
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	booking, err := h.service.Create(r.Context(), identity, req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := authmiddleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "GetByID", apperrors.Unauthorized("Access denied. No token provided."))
		return
	}

	booking, err := h.service.GetByID(r.Context(), identity, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := authmiddleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "ListMine", apperrors.Unauthorized("Access denied. No token provided."))
		return
	}

	bookings, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "error", err)
	}
}

func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}

	filter := model.BookingFilter{Status: r.URL.Query().Get("status")}

	bookings, total, err := h.service.ListAll(r.Context(), filter, page, limit)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}

	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	response := bookingListResponse{
		Bookings: bookings,
		Pagination: httputil.Pagination{
			Current: page,
			Pages:   pages,
			Total:   total,
		},
	}
	if err := httputil.WriteJSON(w, http.StatusOK, response); err != nil {
		h.log.Error("failed to write list response", "handler", "ListAll", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, ok := authmiddleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "UpdateStatus", apperrors.Unauthorized("Access denied. No token provided."))
		return
	}

	var update model.BookingStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "UpdateStatus", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), identity, ps.ByName("id"), update.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.authenticate(h.Create))
	router.GET("/api/v1/bookings/my-bookings", h.authenticate(h.ListMine))
	router.GET("/api/v1/bookings/all", h.authenticate(h.requireAdmin(h.ListAll)))
	router.GET("/api/v1/bookings/id/:id", h.authenticate(h.GetByID))
	router.PATCH("/api/v1/bookings/id/:id/status", h.authenticate(h.UpdateStatus))
}

func (p *bookingRequestPayload) toRequest() (*model.BookingRequest, error) {
	checkIn, err := parseBookingDate(p.CheckIn)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid checkIn date: " + p.CheckIn)
	}
	checkOut, err := parseBookingDate(p.CheckOut)
	if err != nil {
		return nil, apperrors.InvalidInput("Invalid checkOut date: " + p.CheckOut)
	}

	return &model.BookingRequest{
		PropertyID:      p.PropertyID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          p.Guests,
		SpecialRequests: p.SpecialRequests,
	}, nil
}

func parseBookingDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
