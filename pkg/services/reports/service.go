package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/de-tools/nutrition-atlas/pkg/catalogue"
	"github.com/de-tools/nutrition-atlas/pkg/models/domain"
	"github.com/de-tools/nutrition-atlas/pkg/models/store"
	"github.com/de-tools/nutrition-atlas/pkg/render"
	"github.com/de-tools/nutrition-atlas/pkg/store/blob"
	"github.com/de-tools/nutrition-atlas/pkg/store/observations"
	sqlstore "github.com/de-tools/nutrition-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

const DefaultExpectedRowsPerYear = 2520

type Service interface {
	Sections() []domain.Section
	Reports(section domain.SectionID) ([]string, error)
	Definition(section domain.SectionID, name string) (domain.ReportDefinition, error)
	OnReportSelected(ctx context.Context, section domain.SectionID, name string, params map[string]string) (*domain.TabularResult, error)
	Charts() []domain.ChartDefinition
	Chart(ctx context.Context, id string) (domain.ChartDefinition, *domain.TabularResult, error)
	RenderChart(ctx context.Context, w io.Writer, id string, format render.Format) error
	ExportCharts(ctx context.Context, sink blob.Sink, format render.Format) ([]string, error)
	Summary() domain.Summary
	CheckQuality(ctx context.Context) (domain.QualityReport, error)
}

type Settings struct {
	ExpectedRowsPerYear int64
}

type DefaultService struct {
	catalogue    catalogue.Catalogue
	executor     sqlstore.Executor
	observations observations.Store
	renderer     render.Renderer
	settings     Settings

	mu        sync.RWMutex
	snapshots map[string]*domain.TabularResult
}

func NewService(
	cat catalogue.Catalogue,
	executor sqlstore.Executor,
	observationStore observations.Store,
	renderer render.Renderer,
	settings Settings,
) *DefaultService {
	if settings.ExpectedRowsPerYear == 0 {
		settings.ExpectedRowsPerYear = DefaultExpectedRowsPerYear
	}
	return &DefaultService{
		catalogue:    cat,
		executor:     executor,
		observations: observationStore,
		renderer:     renderer,
		settings:     settings,
		snapshots:    make(map[string]*domain.TabularResult),
	}
}

// Init loads both observation snapshots. They are never refreshed afterwards.
func (s *DefaultService) Init(ctx context.Context) error {
	for _, table := range []string{store.TableObesity, store.TableMalnutrition} {
		if _, err := s.snapshot(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func (s *DefaultService) Sections() []domain.Section {
	return s.catalogue.ListSections()
}

func (s *DefaultService) Reports(section domain.SectionID) ([]string, error) {
	return s.catalogue.ListReports(section)
}

func (s *DefaultService) Definition(section domain.SectionID, name string) (domain.ReportDefinition, error) {
	return s.catalogue.GetDefinition(section, name)
}

func (s *DefaultService) OnReportSelected(
	ctx context.Context,
	section domain.SectionID,
	name string,
	params map[string]string,
) (*domain.TabularResult, error) {
	def, err := s.catalogue.GetDefinition(section, name)
	if err != nil {
		return nil, err
	}

	result, err := s.executor.Execute(ctx, def, params)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("section", string(section)).
			Str("report", def.ID).
			Msg("report failed")
		return nil, err
	}
	return result, nil
}

func (s *DefaultService) Charts() []domain.ChartDefinition {
	return s.catalogue.Charts()
}

func (s *DefaultService) Chart(ctx context.Context, id string) (domain.ChartDefinition, *domain.TabularResult, error) {
	def, err := s.catalogue.GetChart(id)
	if err != nil {
		return domain.ChartDefinition{}, nil, err
	}
	snapshot, err := s.snapshot(ctx, def.Source)
	if err != nil {
		return domain.ChartDefinition{}, nil, err
	}
	return def, snapshot, nil
}

func (s *DefaultService) RenderChart(ctx context.Context, w io.Writer, id string, format render.Format) error {
	def, snapshot, err := s.Chart(ctx, id)
	if err != nil {
		return err
	}
	return s.renderer.Render(w, snapshot, def, format)
}

// ExportCharts renders every chart into sink. Charts without data are skipped.
func (s *DefaultService) ExportCharts(ctx context.Context, sink blob.Sink, format render.Format) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	locations := make([]string, 0)
	for _, def := range s.catalogue.Charts() {
		var buf bytes.Buffer
		err := s.RenderChart(ctx, &buf, def.ID, format)
		if errors.Is(err, domain.ErrNoData) {
			logger.Warn().Str("chart", def.ID).Msg("chart has no data, skipped")
			continue
		}
		if err != nil {
			return locations, err
		}

		location, err := sink.Put(ctx, fmt.Sprintf("%s.%s", def.ID, format), format.ContentType(), buf.Bytes())
		if err != nil {
			return locations, err
		}
		logger.Info().Str("chart", def.ID).Str("location", location).Msg("chart exported")
		locations = append(locations, location)
	}
	return locations, nil
}

func (s *DefaultService) Summary() domain.Summary {
	return s.catalogue.Summary()
}

// CheckQuality compares rows per year with the expected population. Mismatches
// are logged and reported, never enforced.
func (s *DefaultService) CheckQuality(ctx context.Context) (domain.QualityReport, error) {
	logger := zerolog.Ctx(ctx)
	report := domain.QualityReport{Consistent: true}

	for _, table := range []string{store.TableObesity, store.TableMalnutrition} {
		counts, err := s.observations.RowsPerYear(ctx, table)
		if err != nil {
			return domain.QualityReport{}, fmt.Errorf("check %s: %w", table, err)
		}

		tq := domain.TableQuality{Table: table, Consistent: true}
		for _, c := range counts {
			c.Expected = s.settings.ExpectedRowsPerYear
			c.Consistent = c.Rows == c.Expected
			if !c.Consistent {
				tq.Consistent = false
				logger.Warn().
					Str("table", table).
					Int64("year", c.Year).
					Int64("rows", c.Rows).
					Int64("expected", c.Expected).
					Msg("unexpected number of observations")
			}
			tq.Years = append(tq.Years, c)
		}
		report.Consistent = report.Consistent && tq.Consistent
		report.Tables = append(report.Tables, tq)
	}
	return report, nil
}

func (s *DefaultService) snapshot(ctx context.Context, table string) (*domain.TabularResult, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[table]
	s.mu.RUnlock()
	if ok {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.snapshots[table]; ok {
		return snap, nil
	}
	snap, err := s.observations.Snapshot(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("load %s snapshot: %w", table, err)
	}
	s.snapshots[table] = snap
	return snap, nil
}
