package api

import (
	"errors"
	"fmt"
	"riskfactors/internal/app"
	"strings"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) onboardSymbol(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		returnErrorJsonCode(fmt.Errorf("symbol is required"), c, 400)
		return
	}

	m.OnboardingService.Enqueue(symbol)

	// onboarding runs async; poll the status endpoint for progress
	c.JSON(202, gin.H{
		"symbol": symbol,
		"status": app.OnboardingStatusPending,
	})
}

func (m ApiHandler) symbolStatus(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))

	status, err := m.OnboardingService.Status(symbol)
	if err != nil {
		if errors.Is(err, app.ErrSymbolUnknown) {
			returnErrorJsonCode(err, c, 404)
			return
		}
		returnErrorJson(err, c)
		return
	}

	out := gin.H{
		"symbol": symbol,
		"status": status,
	}
	if job, ok := m.OnboardingService.Job(symbol); ok {
		out["phases"] = job.Phases
		if job.Err != nil {
			out["error"] = job.Err.Error()
		}
	}

	c.JSON(200, out)
}
