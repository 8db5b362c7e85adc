package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/nutrition-atlas/pkg/models/api"
	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/render"
	"github.com/de-tools/nutrition-atlas/pkg/store/blob"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReports struct {
	mock.Mock
}

func (m *mockReports) Sections() []domain.Section {
	return m.Called().Get(0).([]domain.Section)
}

func (m *mockReports) Reports(section domain.SectionID) ([]string, error) {
	args := m.Called(section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockReports) Definition(section domain.SectionID, name string) (domain.ReportDefinition, error) {
	args := m.Called(section, name)
	return args.Get(0).(domain.ReportDefinition), args.Error(1)
}

func (m *mockReports) OnReportSelected(
	ctx context.Context,
	section domain.SectionID,
	name string,
	params map[string]string,
) (*domain.TabularResult, error) {
	args := m.Called(ctx, section, name, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TabularResult), args.Error(1)
}

func (m *mockReports) Charts() []domain.ChartDefinition {
	return m.Called().Get(0).([]domain.ChartDefinition)
}

func (m *mockReports) Chart(ctx context.Context, id string) (domain.ChartDefinition, *domain.TabularResult, error) {
	args := m.Called(ctx, id)
	if args.Get(1) == nil {
		return args.Get(0).(domain.ChartDefinition), nil, args.Error(2)
	}
	return args.Get(0).(domain.ChartDefinition), args.Get(1).(*domain.TabularResult), args.Error(2)
}

func (m *mockReports) RenderChart(ctx context.Context, w io.Writer, id string, format render.Format) error {
	args := m.Called(ctx, w, id, format)
	return args.Error(0)
}

func (m *mockReports) ExportCharts(ctx context.Context, sink blob.Sink, format render.Format) ([]string, error) {
	args := m.Called(ctx, sink, format)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockReports) Summary() domain.Summary {
	return m.Called().Get(0).(domain.Summary)
}

func (m *mockReports) CheckQuality(ctx context.Context) (domain.QualityReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.QualityReport), args.Error(1)
}

var byGender = domain.ReportDefinition{
	ID:      "by-gender",
	Section: domain.SectionObesity,
	Name:    "Average obesity by gender",
	Display: domain.DisplayTable,
	Columns: []string{"gender", "average_obesity"},
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	mockSvc := new(mockReports)
	config := Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Reports: mockSvc,
			Logger:  logger,
		},
	}
	router := ConfigureRouter(config)
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		path           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name: "ListSections",
			path: "/api/v1/sections",
			setupMocks: func() {
				mockSvc.On("Sections").Return([]domain.Section{
					{ID: domain.SectionObesity, Title: "Obesity Queries", Reports: []domain.ReportDefinition{byGender}},
					{ID: domain.SectionSummary, Title: "Summary"},
				}).Once()
			},
			expectedStatus: http.StatusOK,
			expected: []api.Section{
				{ID: "obesity", Title: "Obesity Queries", Reports: []api.Report{{
					ID: "by-gender", Name: "Average obesity by gender", Display: "table",
					Columns: []string{"gender", "average_obesity"},
				}}},
				{ID: "summary", Title: "Summary", Reports: []api.Report{}},
			},
			parseResponse: unmarshalResponse[[]api.Section](),
		},
		{
			name: "RunReport",
			path: "/api/v1/sections/obesity/reports/by-gender",
			setupMocks: func() {
				mockSvc.On("Definition", domain.SectionObesity, "by-gender").Return(byGender, nil).Once()
				mockSvc.On("OnReportSelected", mock.Anything, domain.SectionObesity, "by-gender", map[string]string(nil)).
					Return(&domain.TabularResult{
						ExecutionID: "exec-1",
						Columns:     []domain.Column{{Name: "gender"}, {Name: "average_obesity"}},
						Rows:        [][]any{{"female", 12.5}, {"male", 10.0}},
					}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected: api.Result{
				ExecutionID: "exec-1",
				Section:     "obesity",
				Report:      "by-gender",
				Display:     "table",
				Columns:     []api.Column{{Name: "gender"}, {Name: "average_obesity"}},
				Rows:        [][]any{{"female", 12.5}, {"male", 10.0}},
			},
			parseResponse: unmarshalResponse[api.Result](),
		},
		{
			name: "RunReportWithParams",
			path: "/api/v1/sections/obesity/reports/country-trend?country=Peru",
			setupMocks: func() {
				mockSvc.On("Definition", domain.SectionObesity, "country-trend").
					Return(domain.ReportDefinition{ID: "country-trend", Section: domain.SectionObesity, Display: domain.DisplayLine}, nil).Once()
				mockSvc.On("OnReportSelected", mock.Anything, domain.SectionObesity, "country-trend", map[string]string{"country": "Peru"}).
					Return(&domain.TabularResult{Columns: []domain.Column{{Name: "country"}}, Rows: [][]any{}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected: api.Result{
				Section: "obesity",
				Report:  "country-trend",
				Display: "line",
				Columns: []api.Column{{Name: "country"}},
				Rows:    [][]any{},
			},
			parseResponse: unmarshalResponse[api.Result](),
		},
		{
			name: "UnknownReport",
			path: "/api/v1/sections/obesity/reports/nope",
			setupMocks: func() {
				mockSvc.On("Definition", domain.SectionObesity, "nope").
					Return(domain.ReportDefinition{}, &domain.NotFoundError{Kind: "report", Section: "obesity", Name: "nope"}).Once()
			},
			expectedStatus: http.StatusNotFound,
			expected:       api.Error{Error: (&domain.NotFoundError{Kind: "report", Section: "obesity", Name: "nope"}).Error()},
			parseResponse:  unmarshalResponse[api.Error](),
		},
		{
			name: "QueryError",
			path: "/api/v1/sections/obesity/reports/by-gender?year=x",
			setupMocks: func() {
				mockSvc.On("Definition", domain.SectionObesity, "by-gender").Return(byGender, nil).Once()
				mockSvc.On("OnReportSelected", mock.Anything, domain.SectionObesity, "by-gender", map[string]string{"year": "x"}).
					Return(nil, &domain.QueryError{Report: "by-gender", Err: errors.New("unknown parameter \"year\"")}).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expected:       api.Error{Error: (&domain.QueryError{Report: "by-gender", Err: errors.New("unknown parameter \"year\"")}).Error()},
			parseResponse:  unmarshalResponse[api.Error](),
		},
		{
			name: "ConnectionError",
			path: "/api/v1/sections/combined/reports/comparison",
			setupMocks: func() {
				mockSvc.On("Definition", domain.SectionCombined, "comparison").
					Return(domain.ReportDefinition{ID: "comparison", Section: domain.SectionCombined}, nil).Once()
				mockSvc.On("OnReportSelected", mock.Anything, domain.SectionCombined, "comparison", map[string]string(nil)).
					Return(nil, &domain.ConnectionError{Driver: "mysql", Err: errors.New("connection refused")}).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expected:       api.Error{Error: (&domain.ConnectionError{Driver: "mysql", Err: errors.New("connection refused")}).Error()},
			parseResponse:  unmarshalResponse[api.Error](),
		},
		{
			name: "GetQuality",
			path: "/api/v1/quality",
			setupMocks: func() {
				mockSvc.On("CheckQuality", mock.Anything).Return(domain.QualityReport{
					Consistent: true,
					Tables: []domain.TableQuality{{
						Table: "obesity", Consistent: true,
						Years: []domain.YearCount{{Year: 2012, Rows: 2520, Expected: 2520, Consistent: true}},
					}},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expected: api.QualityReport{
				Consistent: true,
				Tables: []api.TableQuality{{
					Table: "obesity", Consistent: true,
					Years: []api.YearCount{{Year: 2012, Rows: 2520, Expected: 2520, Consistent: true}},
				}},
			},
			parseResponse: unmarshalResponse[api.QualityReport](),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			resp, err := http.Get(testServer.URL + tc.path)
			require.NoError(t, err, "Failed to make request")
			defer func() {
				err := resp.Body.Close()
				require.NoError(t, err, "Failed to close response body")
			}()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("Content-Type"))

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}

	mockSvc.AssertExpectations(t)
}

func TestWebAPI_ChartImage(t *testing.T) {
	mockSvc := new(mockReports)
	router := ConfigureRouter(Config{Dependencies: Dependencies{Reports: mockSvc, Logger: zerolog.Nop()}})

	mockSvc.On("RenderChart", mock.Anything, mock.Anything, "obesity-trend", render.FormatSVG).
		Run(func(args mock.Arguments) {
			_, _ = args.Get(1).(io.Writer).Write([]byte("<svg></svg>"))
		}).Return(nil).Once()
	mockSvc.On("RenderChart", mock.Anything, mock.Anything, "malnutrition-trend", render.FormatPNG).
		Return(domain.ErrNoData).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts/obesity-trend/image?format=svg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<svg></svg>", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts/malnutrition-trend/image", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts/obesity-trend/image?format=gif", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockSvc.AssertExpectations(t)
}

func TestWebAPI_RecoversFromPanics(t *testing.T) {
	mockSvc := new(mockReports)
	mockSvc.On("Sections").Run(func(mock.Arguments) { panic("boom") }).Return([]domain.Section{})
	router := ConfigureRouter(Config{Dependencies: Dependencies{Reports: mockSvc, Logger: zerolog.Nop()}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sections", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
