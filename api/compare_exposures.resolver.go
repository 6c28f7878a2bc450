package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// compareExposures runs the store-backed and legacy aggregation paths
// side by side. Kept while the precomputed path earns trust; results
// are never cached.
func (m ApiHandler) compareExposures(c *gin.Context) {
	portfolioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid portfolio id: %w", err), c, 400)
		return
	}

	positions, err := m.PositionRepository.GetPositions(portfolioID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	comparison, err := m.Comparator.Compare(c, positions, time.Now().UTC())
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"portfolioId": portfolioID,
		"matches":     comparison.Matches,
		"diff":        comparison.Diff,
	})
}
