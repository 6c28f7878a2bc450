package repository

import (
	"database/sql"
	"fmt"
	"riskfactors/internal/db/models/postgres/public/model"
	"riskfactors/internal/db/models/postgres/public/table"
	"time"

	. "github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
)

type BatchRunRepository interface {
	Add(run model.BatchRun) (*model.BatchRun, error)
	UpdateState(runID uuid.UUID, state model.BatchRunState) error
	Complete(runID uuid.UUID) error
	Fail(runID uuid.UUID, runErr error) error
}

func NewBatchRunRepository(db *sql.DB) BatchRunRepository {
	return batchRunRepositoryHandler{Db: db}
}

type batchRunRepositoryHandler struct {
	Db *sql.DB
}

func (h batchRunRepositoryHandler) Add(run model.BatchRun) (*model.BatchRun, error) {
	run.BatchRunID = uuid.New()
	run.StartedAt = time.Now().UTC()
	query := table.BatchRun.
		INSERT(table.BatchRun.AllColumns).
		MODEL(run).
		RETURNING(table.BatchRun.AllColumns)

	out := model.BatchRun{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert batch run: %w", err)
	}

	return &out, nil
}

func (h batchRunRepositoryHandler) UpdateState(runID uuid.UUID, state model.BatchRunState) error {
	query := table.BatchRun.
		UPDATE(table.BatchRun.State).
		// batch_run_state is a Postgres enum; use NewEnumValue to avoid `operator does not exist`
		SET(NewEnumValue(state.String())).
		WHERE(table.BatchRun.BatchRunID.EQ(UUID(runID)))

	_, err := query.Exec(h.Db)
	if err != nil {
		return fmt.Errorf("failed to update batch run %s to %s: %w", runID, state, err)
	}

	return nil
}

func (h batchRunRepositoryHandler) Complete(runID uuid.UUID) error {
	now := time.Now().UTC()
	query := table.BatchRun.
		UPDATE(table.BatchRun.State, table.BatchRun.CompletedAt).
		SET(NewEnumValue(model.BatchRunState_Complete.String()), TimestampT(now)).
		WHERE(table.BatchRun.BatchRunID.EQ(UUID(runID)))

	_, err := query.Exec(h.Db)
	if err != nil {
		return fmt.Errorf("failed to complete batch run %s: %w", runID, err)
	}

	return nil
}

func (h batchRunRepositoryHandler) Fail(runID uuid.UUID, runErr error) error {
	now := time.Now().UTC()
	msg := runErr.Error()
	query := table.BatchRun.
		UPDATE(table.BatchRun.State, table.BatchRun.CompletedAt, table.BatchRun.Error).
		SET(NewEnumValue(model.BatchRunState_Failed.String()), TimestampT(now), String(msg)).
		WHERE(table.BatchRun.BatchRunID.EQ(UUID(runID)))

	_, err := query.Exec(h.Db)
	if err != nil {
		return fmt.Errorf("failed to mark batch run %s failed: %w", runID, err)
	}

	return nil
}
