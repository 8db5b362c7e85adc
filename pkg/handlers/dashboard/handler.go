package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/de-tools/nutrition-atlas/pkg/adapters"
	"github.com/de-tools/nutrition-atlas/pkg/models/api"
	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/render"
	"github.com/de-tools/nutrition-atlas/pkg/services/reports"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

//go:embed templates/index.html
var templates embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type Handler struct {
	reports reports.Service
}

func NewHandler(service reports.Service) *Handler {
	return &Handler{
		reports: service,
	}
}

type indexPage struct {
	Sections []api.Section
	Charts   []api.Chart
	Summary  api.Summary
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		Sections: adapters.MapSectionsDomainToApi(h.reports.Sections()),
		Charts:   adapters.MapChartsDomainToApi(h.reports.Charts()),
		Summary:  adapters.MapSummaryDomainToApi(h.reports.Summary()),
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, adapters.MapSectionsDomainToApi(h.reports.Sections()))
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	section := domain.SectionID(chi.URLParam(r, "section"))

	names, err := h.reports.Reports(section)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response := make([]api.Report, 0, len(names))
	for _, name := range names {
		def, err := h.reports.Definition(section, name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response = append(response, adapters.MapReportDomainToApi(def))
	}
	writeJSON(w, r, http.StatusOK, response)
}

// RunReport executes a report; query string values are bound as parameters
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	section := domain.SectionID(chi.URLParam(r, "section"))
	name := chi.URLParam(r, "report")

	def, err := h.reports.Definition(section, name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var params map[string]string
	if query := r.URL.Query(); len(query) > 0 {
		params = make(map[string]string, len(query))
		for k := range query {
			params[k] = query.Get(k)
		}
	}

	result, err := h.reports.OnReportSelected(ctx, section, name, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapResultDomainToApi(def, result))
}

func (h *Handler) ListCharts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, adapters.MapChartsDomainToApi(h.reports.Charts()))
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	def, data, err := h.reports.Chart(r.Context(), chi.URLParam(r, "chart"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	shaped, err := render.Shape(def, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapShapedToApi(shaped))
}

func (h *Handler) GetChartImage(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.reports.RenderChart(r.Context(), &buf, chi.URLParam(r, "chart"), format); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = buf.WriteTo(w)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, adapters.MapSummaryDomainToApi(h.reports.Summary()))
}

func (h *Handler) GetQuality(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.CheckQuality(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapQualityDomainToApi(report))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	}

	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, r, status, api.Error{Error: err.Error()})
}

// StatusFor maps domain errors onto HTTP status codes
func StatusFor(err error) int {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsQueryError(err):
		return http.StatusUnprocessableEntity
	case domain.IsConnectionError(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNoData):
		return http.StatusNoContent
	default:
		return http.StatusInternalServerError
	}
}
