package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"riskfactors/api"
	"riskfactors/internal"
	"riskfactors/internal/app"
	"riskfactors/internal/cache"
	"riskfactors/internal/logger"
	"riskfactors/internal/prices"
	"riskfactors/internal/repository"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := internal.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	adjPriceRepository := repository.NewAdjustedPriceRepository(dbConn)
	universeRepository := repository.NewUniverseSymbolRepository(dbConn)
	factorDefinitionRepository := repository.NewFactorDefinitionRepository(dbConn)
	exposureRepository := repository.NewSymbolFactorExposureRepository(dbConn)
	metricRepository := repository.NewSymbolDailyMetricRepository(dbConn)
	batchRunRepository := repository.NewBatchRunRepository(dbConn)
	alpacaRepository := repository.NewAlpacaRepository(secrets.Alpaca.ApiKey, secrets.Alpaca.ApiSecret, secrets.Alpaca.Endpoint)
	positionRepository := repository.NewAlpacaPositionRepository(alpacaRepository)

	priceService := prices.NewPriceService(adjPriceRepository, alpacaRepository)
	symbolFactorService := app.NewSymbolFactorService(priceService, factorDefinitionRepository, exposureRepository)
	aggregationCache := cache.NewAggregationCache()

	onboardingService := app.NewOnboardingService(
		dbConn,
		universeRepository,
		factorDefinitionRepository,
		exposureRepository,
		metricRepository,
		adjPriceRepository,
		priceService,
		symbolFactorService,
		aggregationCache,
	)
	universeBatchService := app.NewUniverseBatchService(
		dbConn,
		universeRepository,
		batchRunRepository,
		factorDefinitionRepository,
		exposureRepository,
		metricRepository,
		adjPriceRepository,
		priceService,
		symbolFactorService,
		aggregationCache,
	)
	storeBackend := app.NewSymbolStoreBackend(exposureRepository)
	aggregatorService := app.NewAggregatorService(
		positionRepository,
		storeBackend,
		aggregationCache,
		onboardingService,
	)
	comparator := &app.Comparator{
		Primary:   storeBackend,
		Candidate: app.NewLegacyPositionBackend(priceService, factorDefinitionRepository),
		Tolerance: 1e-3,
	}

	apiHandler := &api.ApiHandler{
		Db:                         dbConn,
		UniverseBatchService:       universeBatchService,
		AggregatorService:          aggregatorService,
		OnboardingService:          onboardingService,
		PositionRepository:         positionRepository,
		MetricRepository:           metricRepository,
		FactorDefinitionRepository: factorDefinitionRepository,
		Comparator:                 comparator,
		Logger:                     logger.New(),
	}

	return apiHandler, nil
}
