package api

import (
	"errors"
	"fmt"
	"riskfactors/internal/db/models/postgres/public/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-jet/jet/v2/qrm"
)

func parseDateParam(c *gin.Context) (time.Time, error) {
	if dateParam := c.Query("date"); dateParam != "" {
		parsed, err := time.Parse(time.DateOnly, dateParam)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date: %w", err)
		}
		return parsed, nil
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

// universeMetrics serves every symbol's denormalized metric row for one
// date - the read path for universe-wide sorting and filtering.
func (m ApiHandler) universeMetrics(c *gin.Context) {
	date, err := parseDateParam(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	metrics, err := m.MetricRepository.ListOnDate(date)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, metrics)
}

func (m ApiHandler) symbolMetrics(c *gin.Context) {
	symbol := c.Param("symbol")
	date, err := parseDateParam(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	metric, err := m.MetricRepository.Get(symbol, date)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			returnErrorJsonCode(fmt.Errorf("no metrics for %s on %s", symbol, date.Format(time.DateOnly)), c, 404)
			return
		}
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, metric)
}

var factorTypesByName = map[string]model.FactorType{
	"style":  model.FactorType_Style,
	"macro":  model.FactorType_Macro,
	"spread": model.FactorType_Spread,
}

func (m ApiHandler) listFactorDefinitions(c *gin.Context) {
	typeParam := c.Query("type")
	if typeParam == "" {
		factors, err := m.FactorDefinitionRepository.List()
		if err != nil {
			returnErrorJson(err, c)
			return
		}
		c.JSON(200, factors)
		return
	}

	factorType, ok := factorTypesByName[typeParam]
	if !ok {
		returnErrorJsonCode(fmt.Errorf("unknown factor type %q", typeParam), c, 400)
		return
	}
	factors, err := m.FactorDefinitionRepository.ListByType(factorType)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, factors)
}
