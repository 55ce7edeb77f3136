package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/openkenya/countymap/pkg/cache"
	"github.com/openkenya/countymap/pkg/geo"
	"github.com/openkenya/countymap/pkg/placement"
)

// Datasets bundles the outputs of the load stage: the spatial index, the
// decoded record set, and a combined content hash of the raw inputs used
// to key downstream cache entries.
type Datasets struct {
	Index   *geo.Index
	Records []*placement.Record
	Hash    string
}

// Load reads the boundary and record datasets. The two files are read
// concurrently; either failure aborts the stage.
func Load(ctx context.Context, opts Options) (*Datasets, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	type read struct {
		data []byte
		err  error
	}
	recordCh := make(chan read, 1)
	go func() {
		data, err := os.ReadFile(opts.RecordPath)
		recordCh <- read{data, err}
	}()

	boundaryData, boundaryErr := os.ReadFile(opts.BoundaryPath)
	recordRead := <-recordCh

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if boundaryErr != nil {
		return nil, fmt.Errorf("read boundaries %s: %w", opts.BoundaryPath, boundaryErr)
	}
	if recordRead.err != nil {
		return nil, fmt.Errorf("read records %s: %w", opts.RecordPath, recordRead.err)
	}

	fc, err := geo.ReadBoundaries(bytes.NewReader(boundaryData))
	if err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}
	index, err := geo.BuildIndex(fc)
	if err != nil {
		return nil, fmt.Errorf("index boundaries: %w", err)
	}

	records, err := placement.ReadRecords(bytes.NewReader(recordRead.data))
	if err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if opts.ExcludeResolved {
		records = placement.ExcludeResolved(records)
	}

	combined := cache.Hash(boundaryData) + cache.Hash(recordRead.data)
	return &Datasets{
		Index:   index,
		Records: records,
		Hash:    cache.Hash([]byte(combined)),
	}, nil
}
