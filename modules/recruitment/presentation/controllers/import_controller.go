package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/services"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/services/sheetimport"
	"github.com/talentgrid-hq/talentgrid/pkg/application"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
	"github.com/talentgrid-hq/talentgrid/pkg/configuration"
	"github.com/talentgrid-hq/talentgrid/pkg/excel"
	"github.com/talentgrid-hq/talentgrid/pkg/httpapi"
	"github.com/talentgrid-hq/talentgrid/pkg/serrors"
)

type importRequestBody struct {
	Headers []string             `json:"headers"`
	Rows    [][]sheetimport.Cell `json:"rows"`
	Team    string               `json:"team,omitempty"`
	Source  string               `json:"source,omitempty"`
}

type ImportController struct {
	app      application.Application
	imports  *services.PlacementImportService
	batches  *services.ImportBatchService
	basePath string
}

func NewImportController(app application.Application) application.Controller {
	return &ImportController{
		app:      app,
		imports:  app.Service(services.PlacementImportService{}).(*services.PlacementImportService),
		batches:  app.Service(services.ImportBatchService{}).(*services.ImportBatchService),
		basePath: "/recruitment/imports",
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/personal", c.importPersonal).Methods(http.MethodPost)
	router.HandleFunc("/team", c.importTeam).Methods(http.MethodPost)
	router.HandleFunc("", c.listBatches).Methods(http.MethodGet)
}

func (c *ImportController) importPersonal(w http.ResponseWriter, r *http.Request) {
	c.runImport(w, r, func(ctx context.Context, req sheetimport.Request) (*services.ImportResult, error) {
		return c.imports.ImportPersonal(ctx, req)
	})
}

func (c *ImportController) importTeam(w http.ResponseWriter, r *http.Request) {
	c.runImport(w, r, func(ctx context.Context, req sheetimport.Request) (*services.ImportResult, error) {
		return c.imports.ImportTeam(ctx, req)
	})
}

func (c *ImportController) runImport(
	w http.ResponseWriter,
	r *http.Request,
	run func(ctx context.Context, req sheetimport.Request) (*services.ImportResult, error),
) {
	req, err := decodeImportRequest(r)
	if err != nil {
		_ = httpapi.WriteDomainError(w, http.StatusBadRequest, err)
		return
	}

	result, err := run(r.Context(), req)
	if err != nil {
		var base *serrors.Base
		if errors.As(err, &base) {
			_ = httpapi.WriteDomainError(w, http.StatusUnprocessableEntity, err)
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("placement import failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "import failed")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}

// decodeImportRequest accepts either a JSON body or a multipart upload
// with an xlsx workbook in the "file" field.
func decodeImportRequest(r *http.Request) (sheetimport.Request, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(configuration.Use().MaxUploadSize); err != nil {
			return sheetimport.Request{}, serrors.NewError("IMPORT_BAD_UPLOAD", "cannot parse multipart upload", "")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return sheetimport.Request{}, serrors.NewError("IMPORT_BAD_UPLOAD", "missing workbook in \"file\" field", "")
		}
		defer file.Close()
		headers, rows, err := excel.Flatten(file)
		if err != nil {
			return sheetimport.Request{}, serrors.NewError("IMPORT_BAD_UPLOAD", "cannot read workbook: "+err.Error(), "")
		}
		return sheetimport.Request{
			Headers:   headers,
			Rows:      rows,
			TeamScope: r.FormValue("team"),
			Source:    header.Filename,
		}, nil
	}

	var body importRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return sheetimport.Request{}, serrors.NewError("IMPORT_BAD_REQUEST", "malformed JSON body", "")
	}
	return sheetimport.Request{
		Headers:   body.Headers,
		Rows:      body.Rows,
		TeamScope: body.Team,
		Source:    body.Source,
	}, nil
}

func (c *ImportController) listBatches(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	items, total, err := c.batches.GetPaginated(r.Context(), limit, offset)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("listing import batches failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "cannot list import batches")
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

func pagination(r *http.Request) (int, int) {
	conf := configuration.Use()
	limit := conf.PageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= conf.MaxPageSize {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
