package handlers

import (
	"errors"
	"net/http"

	"github.com/Harshitk-cp/leaddesk/internal/api/middleware"
	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/Harshitk-cp/leaddesk/internal/service"
	"go.uber.org/zap"
)

type TenantHandler struct {
	svc    *service.TenantService
	logger *zap.Logger
}

func NewTenantHandler(svc *service.TenantService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{svc: svc, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
	Company  string `json:"company" validate:"max=200"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type clientResponse struct {
	Token  string         `json:"token,omitempty"`
	Client *domain.Tenant `json:"client"`
}

func (h *TenantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	tenant, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Company:  req.Company,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "email"})
		case errors.Is(err, service.ErrPasswordTooLong):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "password"})
		case errors.Is(err, service.ErrTenantFieldsRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("register client", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, clientResponse{Client: tenant})
}

func (h *TenantHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	token, tenant, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("login", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, clientResponse{Token: token, Client: tenant})
}

func (h *TenantHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tenant, err := h.svc.GetByID(r.Context(), principal.TenantID)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("get current client", zap.Int64("tenant_id", principal.TenantID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get client")
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}
