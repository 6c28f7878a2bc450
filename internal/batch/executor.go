package batch

import (
	"context"
	"database/sql"
	"fmt"
	"riskfactors/internal/logger"
	"sync"
)

const (
	DefaultGroupSize      = 10
	DefaultMaxConcurrency = 5
)

// SymbolFunc runs one symbol's work inside its group's transaction.
type SymbolFunc func(ctx context.Context, tx *sql.Tx, symbol string) error

// TxBeginner is satisfied by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type Options struct {
	GroupSize      int
	MaxConcurrency int
}

func (o Options) withDefaults() Options {
	if o.GroupSize <= 0 {
		o.GroupSize = DefaultGroupSize
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = DefaultMaxConcurrency
	}
	return o
}

type SymbolError struct {
	Symbol string
	Err    error
}

type GroupError struct {
	Symbols []string
	Err     error
}

type Report struct {
	Succeeded    []string
	SymbolErrors []SymbolError
	GroupErrors  []GroupError
}

func (r *Report) SuccessCount() int {
	return len(r.Succeeded)
}

func (r *Report) FailureCount() int {
	n := len(r.SymbolErrors)
	for _, g := range r.GroupErrors {
		n += len(g.Symbols)
	}
	return n
}

// FailedSymbols lists every symbol that did not land, whether it failed
// on its own or went down with its group's transaction.
func (r *Report) FailedSymbols() []string {
	out := []string{}
	for _, s := range r.SymbolErrors {
		out = append(out, s.Symbol)
	}
	for _, g := range r.GroupErrors {
		out = append(out, g.Symbols...)
	}
	return out
}

func (r *Report) Err() error {
	if len(r.GroupErrors) > 0 {
		return fmt.Errorf("%d group(s) failed, first: %w", len(r.GroupErrors), r.GroupErrors[0].Err)
	}
	return nil
}

type groupResult struct {
	succeeded    []string
	symbolErrors []SymbolError
	groupError   *GroupError
}

// Run partitions symbols into fixed-size groups and executes fn for each
// symbol with bounded group concurrency. Every group owns its own
// transaction - symbols inside a group run sequentially on that tx and
// the group commits exactly once. A symbol failure rolls back to the
// symbol's savepoint and the group continues; a group failure (begin,
// commit, panic) rolls the whole group back without touching siblings.
func Run(ctx context.Context, db TxBeginner, symbols []string, opts Options, fn SymbolFunc) *Report {
	opts = opts.withDefaults()
	groups := partition(symbols, opts.GroupSize)

	resultCh := make(chan groupResult, len(groups))
	sem := make(chan struct{}, opts.MaxConcurrency)
	var wg sync.WaitGroup

	for _, group := range groups {
		wg.Add(1)
		go func(group []string) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				resultCh <- groupResult{groupError: &GroupError{Symbols: group, Err: ctx.Err()}}
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			resultCh <- runGroup(ctx, db, group, fn)
		}(group)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	report := &Report{}
	for res := range resultCh {
		report.Succeeded = append(report.Succeeded, res.succeeded...)
		report.SymbolErrors = append(report.SymbolErrors, res.symbolErrors...)
		if res.groupError != nil {
			report.GroupErrors = append(report.GroupErrors, *res.groupError)
		}
	}

	return report
}

func runGroup(ctx context.Context, db TxBeginner, group []string, fn SymbolFunc) (result groupResult) {
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("batch group panicked: %v", r)
			result = groupResult{groupError: &GroupError{
				Symbols: group,
				Err:     fmt.Errorf("batch group panicked: %v", r),
			}}
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return groupResult{groupError: &GroupError{
			Symbols: group,
			Err:     fmt.Errorf("failed to begin group transaction: %w", err),
		}}
	}
	defer tx.Rollback()

	for i, symbol := range group {
		// savepoint per symbol so a failed statement doesn't poison the
		// rest of the group's transaction
		savepoint := fmt.Sprintf("symbol_%d", i)
		if _, err := tx.Exec("SAVEPOINT " + savepoint); err != nil {
			return groupResult{
				succeeded:    result.succeeded,
				symbolErrors: result.symbolErrors,
				groupError: &GroupError{
					Symbols: group[i:],
					Err:     fmt.Errorf("failed to create savepoint: %w", err),
				},
			}
		}

		err := runSymbol(ctx, tx, symbol, fn)
		if err != nil {
			log.Warnf("symbol %s failed in batch group: %v", symbol, err)
			if _, rbErr := tx.Exec("ROLLBACK TO SAVEPOINT " + savepoint); rbErr != nil {
				return groupResult{
					succeeded:    result.succeeded,
					symbolErrors: append(result.symbolErrors, SymbolError{Symbol: symbol, Err: err}),
					groupError: &GroupError{
						Symbols: group[i+1:],
						Err:     fmt.Errorf("failed to roll back to savepoint: %w", rbErr),
					},
				}
			}
			result.symbolErrors = append(result.symbolErrors, SymbolError{Symbol: symbol, Err: err})
			continue
		}
		result.succeeded = append(result.succeeded, symbol)
	}

	// one commit for the whole group
	if err := tx.Commit(); err != nil {
		return groupResult{groupError: &GroupError{
			Symbols: group,
			Err:     fmt.Errorf("failed to commit group transaction: %w", err),
		}}
	}

	return result
}

func runSymbol(ctx context.Context, tx *sql.Tx, symbol string, fn SymbolFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("symbol computation panicked: %v", r)
		}
	}()
	return fn(ctx, tx, symbol)
}

func partition(symbols []string, size int) [][]string {
	groups := [][]string{}
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		groups = append(groups, symbols[start:end])
	}
	return groups
}
