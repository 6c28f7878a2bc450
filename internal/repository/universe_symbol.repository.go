package repository

import (
	"database/sql"
	"fmt"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/db/models/postgres/public/table"
	"time"

	. "github.com/go-jet/jet/v2/postgres"
)

type UniverseSymbolRepository interface {
	ListActive() ([]model.UniverseSymbol, error)
	Get(symbol string) (*model.UniverseSymbol, error)
	Add(tx *sql.Tx, symbol string) error
	MarkActive(tx *sql.Tx, symbol string) error
}

func NewUniverseSymbolRepository(db *sql.DB) UniverseSymbolRepository {
	return universeSymbolRepositoryHandler{Db: db}
}

type universeSymbolRepositoryHandler struct {
	Db *sql.DB
}

func (h universeSymbolRepositoryHandler) ListActive() ([]model.UniverseSymbol, error) {
	query := table.UniverseSymbol.
		SELECT(table.UniverseSymbol.AllColumns).
		WHERE(table.UniverseSymbol.Active.IS_TRUE()).
		ORDER_BY(table.UniverseSymbol.Symbol.ASC())

	out := []model.UniverseSymbol{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list active universe symbols: %w", err)
	}

	return out, nil
}

func (h universeSymbolRepositoryHandler) Get(symbol string) (*model.UniverseSymbol, error) {
	query := table.UniverseSymbol.
		SELECT(table.UniverseSymbol.AllColumns).
		WHERE(table.UniverseSymbol.Symbol.EQ(String(symbol))).
		LIMIT(1)

	out := model.UniverseSymbol{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Add registers a symbol as inactive; re-adding an existing symbol is a
// no-op so concurrent onboarding attempts cannot clobber active state.
func (h universeSymbolRepositoryHandler) Add(tx *sql.Tx, symbol string) error {
	query := table.UniverseSymbol.
		INSERT(table.UniverseSymbol.Symbol, table.UniverseSymbol.Active, table.UniverseSymbol.AddedAt).
		MODEL(model.UniverseSymbol{
			Symbol:  symbol,
			Active:  false,
			AddedAt: time.Now().UTC(),
		}).
		ON_CONFLICT(table.UniverseSymbol.Symbol).
		DO_NOTHING()

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to add universe symbol %s: %w", symbol, err)
	}

	return nil
}

func (h universeSymbolRepositoryHandler) MarkActive(tx *sql.Tx, symbol string) error {
	now := time.Now().UTC()
	query := table.UniverseSymbol.
		UPDATE(table.UniverseSymbol.Active, table.UniverseSymbol.ActivatedAt).
		SET(Bool(true), TimestampT(now)).
		WHERE(table.UniverseSymbol.Symbol.EQ(String(symbol)))

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to mark %s active: %w", symbol, err)
	}

	return nil
}
