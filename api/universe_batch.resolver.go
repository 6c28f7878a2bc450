package api

import (
	"riskfactors/internal/app"
	"time"

	"github.com/gin-gonic/gin"
)

type universeBatchRequest struct {
	// Date defaults to today when omitted.
	Date *string `json:"date"`
	// Symbols restricts the run; empty means the full active universe.
	Symbols []string `json:"symbols"`
	// BudgetMinutes bounds the run's wall clock.
	BudgetMinutes *int `json:"budgetMinutes"`
}

func (m ApiHandler) universeBatch(c *gin.Context) {
	var req universeBatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			returnErrorJsonCode(err, c, 400)
			return
		}
	}

	date := time.Now().UTC()
	if req.Date != nil {
		parsed, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			returnErrorJsonCode(err, c, 400)
			return
		}
		date = parsed
	}

	in := app.RunInput{
		Date:           date,
		SymbolOverride: req.Symbols,
	}
	if req.BudgetMinutes != nil {
		in.Budget = time.Duration(*req.BudgetMinutes) * time.Minute
	}

	report, err := m.UniverseBatchService.Run(c, in)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, report)
}
