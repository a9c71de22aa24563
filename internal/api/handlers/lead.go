package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/leaddesk/internal/api/middleware"
	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/Harshitk-cp/leaddesk/internal/service"
	"go.uber.org/zap"
)

type LeadHandler struct {
	svc    *service.LeadService
	logger *zap.Logger
}

func NewLeadHandler(svc *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{svc: svc, logger: logger}
}

type leadRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Email  string `json:"email" validate:"max=254"`
	Phone  string `json:"phone" validate:"max=64"`
	Status string `json:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	Source string `json:"source" validate:"max=200"`
	Budget string `json:"budget" validate:"max=200"`
	Notes  string `json:"notes" validate:"max=10000"`
}

func (req leadRequest) fields() domain.LeadFields {
	return domain.LeadFields{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: domain.LeadStatus(req.Status),
		Source: req.Source,
		Budget: req.Budget,
		Notes:  req.Notes,
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified converted lost"`
}

type activityRequest struct {
	Kind        string `json:"activity_type" validate:"max=64"`
	Description string `json:"description" validate:"max=10000"`
}

type deleteResponse struct {
	Message string `json:"message"`
}

// tenantID returns the authenticated tenant. Handlers never read an owner
// id from the request body.
func tenantID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	p := middleware.PrincipalFromContext(r.Context())
	if p == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return p.TenantID, true
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := tenantID(w, r)
	if !ok {
		return
	}

	leads, err := h.svc.List(r.Context(), clientID)
	if err != nil {
		h.internalError(w, "list leads", clientID, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	clientID, ok := tenantID(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(r.Context(), clientID)
	if err != nil {
		h.internalError(w, "lead stats", clientID, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrLeadNotFound.Error())
		return
	}

	detail, err := h.svc.GetDetail(r.Context(), id, clientID)
	if err != nil {
		h.writeServiceError(w, "get lead", clientID, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	clientID, ok := tenantID(w, r)
	if !ok {
		return
	}

	var req leadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	lead, err := h.svc.Create(r.Context(), clientID, req.fields())
	if err != nil {
		h.writeServiceError(w, "create lead", clientID, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	clientID, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrLeadNotFound.Error())
		return
	}

	var req leadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	lead, err := h.svc.Update(r.Context(), id, clientID, req.fields())
	if err != nil {
		h.writeServiceError(w, "update lead", clientID, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	clientID, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrLeadNotFound.Error())
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	lead, err := h.svc.ChangeStatus(r.Context(), id, clientID, req.Status)
	if err != nil {
		h.writeServiceError(w, "change lead status", clientID, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrLeadNotFound.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), id, clientID); err != nil {
		h.writeServiceError(w, "delete lead", clientID, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Message: "Lead deleted successfully"})
}

func (h *LeadHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	clientID, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, service.ErrLeadNotFound.Error())
		return
	}

	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	activities, err := h.svc.AddActivity(r.Context(), id, clientID, req.Kind, req.Description)
	if err != nil {
		h.writeServiceError(w, "add lead activity", clientID, err)
		return
	}
	writeJSON(w, http.StatusCreated, activities)
}

func (h *LeadHandler) writeServiceError(w http.ResponseWriter, op string, clientID int64, err error) {
	switch {
	case errors.Is(err, service.ErrLeadNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrLeadNameRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "name"})
	case errors.Is(err, service.ErrStatusRequired), errors.Is(err, service.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "status"})
	default:
		h.internalError(w, op, clientID, err)
	}
}

func (h *LeadHandler) internalError(w http.ResponseWriter, op string, clientID int64, err error) {
	h.logger.Error(op, zap.Int64("tenant_id", clientID), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
