package dbsource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AntonStoeckl/assertdb-go/assertdb/data"
)

// ChangeRecorder holds the start point snapshots of the recorded tables until End takes the end point.
type ChangeRecorder struct {
	source Source
	specs  []TableSpec
	start  []data.Table
	ended  bool
	mu     sync.Mutex
}

// StartChanges takes the start point snapshot of every table in specs.
// Each table needs a primary key to match its rows between the two points.
func (s Source) StartChanges(ctx context.Context, specs ...TableSpec) (*ChangeRecorder, error) {
	if len(specs) == 0 {
		return nil, ErrNoTablesToRecord
	}

	for _, spec := range specs {
		if len(spec.PrimaryKey) == 0 {
			return nil, fmt.Errorf("%w: table %q", data.ErrMissingPrimaryKey, spec.Name)
		}
	}

	start, err := s.tables(ctx, specs)
	if err != nil {
		return nil, err
	}

	return &ChangeRecorder{
		source: s,
		specs:  specs,
		start:  start,
	}, nil
}

// End takes the end point snapshot and returns the changes since StartChanges.
// A recorder can only be ended once.
func (r *ChangeRecorder) End(ctx context.Context) (data.Changes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return data.Changes{}, ErrRecorderAlreadyEnded
	}

	end, err := r.source.tables(ctx, r.specs)
	if err != nil {
		return data.Changes{}, err
	}

	r.ended = true

	changes, changesErr := data.NewChanges(r.start, end)
	if changesErr != nil {
		r.source.logSnapshotFailure(changesErr, logActionTable)
		return data.Changes{}, errors.Join(ErrBuildingSnapshotFailed, changesErr)
	}

	r.source.logOperation(logMsgChangesRecorded, logAttrChangeCount, changes.NumberOfChanges())

	return changes, nil
}

func (s Source) tables(ctx context.Context, specs []TableSpec) ([]data.Table, error) {
	tables := make([]data.Table, 0, len(specs))

	for _, spec := range specs {
		table, err := s.Table(ctx, spec)
		if err != nil {
			return nil, err
		}

		tables = append(tables, table)
	}

	return tables, nil
}
