package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openauthz/api/internal/app"
	"github.com/openauthz/api/internal/metrics"
	"github.com/openauthz/api/pkg/apierror"
	"github.com/openauthz/api/pkg/domain/role"
	"github.com/openauthz/api/pkg/logger"
	"github.com/openauthz/api/pkg/pagination"
	"github.com/openauthz/api/pkg/validator"
)

// RoleHandler handles role-related HTTP requests.
type RoleHandler struct {
	service   *app.RoleService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(svc *app.RoleService, v *validator.Validator, log *logger.Logger) *RoleHandler {
	return &RoleHandler{
		service:   svc,
		validator: v,
		logger:    log,
	}
}

// RoleListItem is the simplified projection used in listings.
type RoleListItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// RoleDetail is the full projection returned by the detail endpoint.
type RoleDetail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
}

func toRoleListItem(r *role.Role) RoleListItem {
	return RoleListItem{
		ID:      r.UUID().String(),
		Name:    r.Name(),
		Summary: r.Summary(),
	}
}

func toRoleDetail(r *role.Role) RoleDetail {
	return RoleDetail{
		ID:          r.UUID().String(),
		Name:        r.Name(),
		Summary:     r.Summary(),
		Description: r.Description(),
		Created:     r.Created().UTC().Format(time.RFC3339),
		Updated:     r.Updated().UTC().Format(time.RFC3339),
	}
}

// List handles GET /role.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	req := pagination.ParseRequest(r.URL.Query())

	roles, filter, err := h.service.ListRoles(r.Context(), req)
	if err != nil {
		metrics.RoleOperationsTotal.WithLabelValues("list", errorStatus(err)).Inc()
		writeServiceError(w, h.logger, err)
		return
	}

	items := make([]RoleListItem, len(roles))
	for i, rl := range roles {
		items[i] = toRoleListItem(rl)
	}

	metrics.RoleOperationsTotal.WithLabelValues("list", apierror.StatusSuccess).Inc()
	writeSuccess(w, envelope{"data": items, "filter": filter})
}

// Create handles POST /role.
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input app.CreateRoleInput
	if err := decodeBody(r, &input); err != nil {
		apierror.BadRequest("invalid-body").WriteJSON(w)
		return
	}

	if err := h.validator.Validate(input); err != nil {
		h.logger.Warn("create role validation failed", "error", err)
		apierror.BadRequest("invalid-body").WriteJSON(w)
		return
	}

	created, err := h.service.CreateRole(r.Context(), input)
	if err != nil {
		metrics.RoleOperationsTotal.WithLabelValues("create", errorStatus(err)).Inc()
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RoleOperationsTotal.WithLabelValues("create", apierror.StatusSuccess).Inc()
	writeSuccess(w, envelope{"id": created.UUID().String()})
}

// Get handles GET /role/{id}.
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierror.NotFound().WriteJSON(w)
		return
	}

	rl, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		metrics.RoleOperationsTotal.WithLabelValues("get", errorStatus(err)).Inc()
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RoleOperationsTotal.WithLabelValues("get", apierror.StatusSuccess).Inc()
	writeSuccess(w, envelope{"data": toRoleDetail(rl)})
}

// Update handles POST /role/{id}.
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierror.NotFound().WriteJSON(w)
		return
	}

	var input app.UpdateRoleInput
	if err := decodeBody(r, &input); err != nil {
		apierror.BadRequest("invalid-body").WriteJSON(w)
		return
	}

	if err := h.validator.Validate(input); err != nil {
		h.logger.Warn("update role validation failed", "error", err)
		apierror.BadRequest("invalid-body").WriteJSON(w)
		return
	}

	if _, err := h.service.UpdateRole(r.Context(), id, input); err != nil {
		metrics.RoleOperationsTotal.WithLabelValues("update", errorStatus(err)).Inc()
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RoleOperationsTotal.WithLabelValues("update", apierror.StatusSuccess).Inc()
	writeSuccess(w, nil)
}

// Delete handles DELETE /role/{id}.
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierror.NotFound().WriteJSON(w)
		return
	}

	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		metrics.RoleOperationsTotal.WithLabelValues("delete", errorStatus(err)).Inc()
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RoleOperationsTotal.WithLabelValues("delete", apierror.StatusSuccess).Inc()
	writeSuccess(w, nil)
}
