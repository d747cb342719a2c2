package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/infrastructure/persistence"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/services"
	"github.com/talentgrid-hq/talentgrid/pkg/application"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
	"github.com/talentgrid-hq/talentgrid/pkg/httpapi"
)

type employeeView struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	DisplayName string    `json:"displayName"`
	Level       string    `json:"level"`
	TeamName    string    `json:"teamName,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toEmployeeView(e employee.Employee) employeeView {
	return employeeView{
		ID:          e.ID(),
		Code:        e.Code(),
		DisplayName: e.DisplayName(),
		Level:       string(e.Level()),
		TeamName:    e.TeamName(),
		Active:      e.Active(),
		CreatedAt:   e.CreatedAt(),
		UpdatedAt:   e.UpdatedAt(),
	}
}

type EmployeeController struct {
	app      application.Application
	service  *services.EmployeeService
	basePath string
}

func NewEmployeeController(app application.Application) application.Controller {
	return &EmployeeController{
		app:      app,
		service:  app.Service(services.EmployeeService{}).(*services.EmployeeService),
		basePath: "/recruitment/employees",
	}
}

func (c *EmployeeController) Key() string {
	return c.basePath
}

func (c *EmployeeController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.getByID).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.update).Methods(http.MethodPut)
}

func (c *EmployeeController) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	params := &employee.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	}
	items, total, err := c.service.GetPaginated(r.Context(), params)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("listing employees failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "cannot list employees")
		return
	}
	views := make([]employeeView, 0, len(items))
	for _, item := range items {
		views = append(views, toEmployeeView(item))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": views,
		"total": total,
	})
}

func (c *EmployeeController) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "EMPLOYEE_BAD_ID", "malformed employee id")
		return
	}
	item, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrEmployeeNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "employee not found")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("fetching employee failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "cannot fetch employee")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toEmployeeView(item))
}

func (c *EmployeeController) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "EMPLOYEE_BAD_ID", "malformed employee id")
		return
	}
	var dto employee.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "EMPLOYEE_BAD_REQUEST", "malformed JSON body")
		return
	}
	stored, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrEmployeeNotFound) {
			_ = httpapi.WriteError(w, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "employee not found")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("fetching employee failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "cannot fetch employee")
		return
	}
	updated, err := dto.Apply(stored)
	if err != nil {
		_ = httpapi.WriteDomainError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err := c.service.Update(r.Context(), updated); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("updating employee failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "cannot update employee")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toEmployeeView(updated))
}

func (c *EmployeeController) create(w http.ResponseWriter, r *http.Request) {
	var dto employee.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "EMPLOYEE_BAD_REQUEST", "malformed JSON body")
		return
	}
	created, err := c.service.Create(r.Context(), &dto)
	if err != nil {
		_ = httpapi.WriteDomainError(w, http.StatusUnprocessableEntity, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toEmployeeView(created))
}
