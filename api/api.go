package api

import (
	"database/sql"
	"fmt"
	"riskfactors/internal/app"
	"riskfactors/internal/logger"
	"riskfactors/internal/repository"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApiHandler struct {
	Db                         *sql.DB
	UniverseBatchService       app.UniverseBatchService
	AggregatorService          app.AggregatorService
	OnboardingService          app.OnboardingService
	PositionRepository         repository.PositionRepository
	MetricRepository           repository.SymbolDailyMetricRepository
	FactorDefinitionRepository repository.FactorDefinitionRepository
	Comparator                 *app.Comparator
	Logger                     *zap.SugaredLogger
}

func (m ApiHandler) router() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.loggerMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "riskfactors api"})
	})
	router.POST("/universeBatch", m.universeBatch)
	router.GET("/factors", m.listFactorDefinitions)
	router.GET("/metrics", m.universeMetrics)
	router.GET("/portfolios/:id/exposures", m.portfolioExposures)
	router.GET("/portfolios/:id/exposures/compare", m.compareExposures)
	router.POST("/symbols/:symbol/onboard", m.onboardSymbol)
	router.GET("/symbols/:symbol/status", m.symbolStatus)
	router.GET("/symbols/:symbol/metrics", m.symbolMetrics)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.router().Run(fmt.Sprintf(":%d", port))
}

func (m ApiHandler) loggerMiddleware(ctx *gin.Context) {
	start := time.Now()
	log := m.Logger.With(
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
	)
	ctx.Set(logger.ContextKey, log)

	ctx.Next()

	log.Infof("%d in %s", ctx.Writer.Status(), time.Since(start).Round(time.Millisecond))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	log := logger.FromContext(c)
	log.Error(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}
