package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (m ApiHandler) portfolioExposures(c *gin.Context) {
	portfolioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid portfolio id: %w", err), c, 400)
		return
	}

	asOf := time.Now().UTC()
	if dateParam := c.Query("date"); dateParam != "" {
		asOf, err = time.Parse(time.DateOnly, dateParam)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid date: %w", err), c, 400)
			return
		}
	}

	exposures, err := m.AggregatorService.GetPortfolioExposures(c, portfolioID, asOf)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, exposures)
}
