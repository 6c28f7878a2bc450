package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/logger"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeMetricRepository struct {
	metrics []model.SymbolDailyMetric
}

func (f *fakeMetricRepository) AddMany(tx *sql.Tx, in []*model.SymbolDailyMetric) error { return nil }

func (f *fakeMetricRepository) Get(symbol string, date time.Time) (*model.SymbolDailyMetric, error) {
	for _, m := range f.metrics {
		if m.Symbol == symbol && m.MetricsDate.Equal(date) {
			out := m
			return &out, nil
		}
	}
	return nil, fmt.Errorf("failed to get daily metric for %s: %w", symbol, qrm.ErrNoRows)
}

func (f *fakeMetricRepository) ListOnDate(date time.Time) ([]model.SymbolDailyMetric, error) {
	out := []model.SymbolDailyMetric{}
	for _, m := range f.metrics {
		if m.MetricsDate.Equal(date) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeFactorDefinitionRepository struct {
	factors []model.FactorDefinition
}

func (f *fakeFactorDefinitionRepository) List() ([]model.FactorDefinition, error) {
	return f.factors, nil
}

func (f *fakeFactorDefinitionRepository) ListByType(factorType model.FactorType) ([]model.FactorDefinition, error) {
	out := []model.FactorDefinition{}
	for _, fd := range f.factors {
		if fd.FactorType == factorType {
			out = append(out, fd)
		}
	}
	return out, nil
}

func serve(t *testing.T, handler ApiHandler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, target, nil)
	handler.router().ServeHTTP(recorder, request)
	return recorder
}

func Test_symbolMetrics(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	closePrice := 231.5
	handler := ApiHandler{
		Logger: logger.New(),
		MetricRepository: &fakeMetricRepository{metrics: []model.SymbolDailyMetric{
			{Symbol: "AAPL", MetricsDate: date, ClosePrice: closePrice},
		}},
	}

	t.Run("returns the symbol's metric row", func(t *testing.T) {
		recorder := serve(t, handler, http.MethodGet, "/symbols/AAPL/metrics?date=2026-08-28")
		require.Equal(t, http.StatusOK, recorder.Code)

		out := model.SymbolDailyMetric{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
		require.Equal(t, "AAPL", out.Symbol)
		require.Equal(t, closePrice, out.ClosePrice)
	})

	t.Run("unknown symbol is a 404", func(t *testing.T) {
		recorder := serve(t, handler, http.MethodGet, "/symbols/NEVERSEEN/metrics?date=2026-08-28")
		require.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("malformed date is a 400", func(t *testing.T) {
		recorder := serve(t, handler, http.MethodGet, "/symbols/AAPL/metrics?date=08-28-2026")
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func Test_universeMetrics(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	handler := ApiHandler{
		Logger: logger.New(),
		MetricRepository: &fakeMetricRepository{metrics: []model.SymbolDailyMetric{
			{Symbol: "AAPL", MetricsDate: date},
			{Symbol: "MSFT", MetricsDate: date},
			{Symbol: "AAPL", MetricsDate: date.AddDate(0, 0, -1)},
		}},
	}

	recorder := serve(t, handler, http.MethodGet, "/metrics?date=2026-08-28")
	require.Equal(t, http.StatusOK, recorder.Code)

	out := []model.SymbolDailyMetric{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
	require.Len(t, out, 2)
}

func Test_listFactorDefinitions(t *testing.T) {
	handler := ApiHandler{
		Logger: logger.New(),
		FactorDefinitionRepository: &fakeFactorDefinitionRepository{factors: []model.FactorDefinition{
			{FactorID: uuid.New(), Name: "market", FactorType: model.FactorType_Macro, BenchmarkSymbol: "SPY"},
			{FactorID: uuid.New(), Name: "momentum", FactorType: model.FactorType_Style, BenchmarkSymbol: "MTUM"},
		}},
	}

	t.Run("lists every definition by default", func(t *testing.T) {
		recorder := serve(t, handler, http.MethodGet, "/factors")
		require.Equal(t, http.StatusOK, recorder.Code)

		out := []model.FactorDefinition{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
		require.Len(t, out, 2)
	})

	t.Run("filters by factor type", func(t *testing.T) {
		recorder := serve(t, handler, http.MethodGet, "/factors?type=style")
		require.Equal(t, http.StatusOK, recorder.Code)

		out := []model.FactorDefinition{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
		require.Len(t, out, 1)
		require.Equal(t, "momentum", out[0].Name)
	})

	t.Run("unknown factor type is a 400", func(t *testing.T) {
		recorder := serve(t, handler, http.MethodGet, "/factors?type=quant")
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
