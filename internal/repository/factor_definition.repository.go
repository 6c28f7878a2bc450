package repository

import (
	"database/sql"
	"fmt"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
)

type FactorDefinitionRepository interface {
	List() ([]model.FactorDefinition, error)
	ListByType(factorType model.FactorType) ([]model.FactorDefinition, error)
}

func NewFactorDefinitionRepository(db *sql.DB) FactorDefinitionRepository {
	return factorDefinitionRepositoryHandler{Db: db}
}

type factorDefinitionRepositoryHandler struct {
	Db *sql.DB
}

func (h factorDefinitionRepositoryHandler) List() ([]model.FactorDefinition, error) {
	query := table.FactorDefinition.
		SELECT(table.FactorDefinition.AllColumns).
		ORDER_BY(table.FactorDefinition.Name.ASC())

	out := []model.FactorDefinition{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list factor definitions: %w", err)
	}

	return out, nil
}

func (h factorDefinitionRepositoryHandler) ListByType(factorType model.FactorType) ([]model.FactorDefinition, error) {
	query := table.FactorDefinition.
		SELECT(table.FactorDefinition.AllColumns).
		// factor_type is a Postgres enum; use NewEnumValue to avoid `operator does not exist: factor_type = text`
		WHERE(table.FactorDefinition.FactorType.EQ(postgres.NewEnumValue(factorType.String()))).
		ORDER_BY(table.FactorDefinition.Name.ASC())

	out := []model.FactorDefinition{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s factor definitions: %w", factorType, err)
	}

	return out, nil
}
