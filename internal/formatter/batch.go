package formatter

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/addrfmt/internal/address"
	"github.com/addrfmt/internal/debug"
)

// progressEvery is how often the batch logs progress
const progressEvery = 25

// Source delivers the raw records of one batch
type Source interface {
	Read(ctx context.Context) ([]address.UnstructuredAddress, error)
}

// Sink stores one structured record
type Sink interface {
	Write(ctx context.Context, addr address.StructuredAddress) error
}

// Linker re-points external references at the stored record
type Linker interface {
	Update(ctx context.Context, id string) (int64, error)
}

// Processor runs Source -> Parse -> Sink -> Linker over a batch
type Processor struct {
	Source  Source
	Sink    Sink
	Linker  Linker // optional
	Workers int
}

// BatchStats tracks batch processing statistics
type BatchStats struct {
	TotalRecords   int
	ProcessedCount int
	StreetCount    int
	PoBoxCount     int
	NoPostalCount  int
	LinkedCount    int
	ErrorCount     int
	ProcessingTime time.Duration
}

type result struct {
	addr   address.StructuredAddress
	linked int64
	err    error
}

// Run processes every record from Source. Per-record failures are counted
// and logged; only a Source failure or cancellation aborts the run.
func (p *Processor) Run(ctx context.Context, localDebug bool) (*BatchStats, error) {
	debug.Header(localDebug, "batch")
	defer debug.Footer(localDebug, "batch")
	defer debug.Timing(localDebug, "batch format")()

	start := time.Now()
	records, err := p.Source.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	stats := &BatchStats{TotalRecords: len(records)}
	debug.Output(localDebug, "Found %d records to format", stats.TotalRecords)
	if stats.TotalRecords == 0 {
		return stats, nil
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan address.UnstructuredAddress)
	results := make(chan result)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for raw := range jobs {
				results <- p.process(ctx, localDebug, workerID, raw)
			}
		}(w)
	}

	go func() {
		defer close(jobs)
		for _, raw := range records {
			select {
			case jobs <- raw:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		stats.add(res)
		if res.err != nil {
			log.Printf("Error formatting record %s: %v", res.addr.ID, res.err)
		}
		if done := stats.ProcessedCount + stats.ErrorCount; done%progressEvery == 0 {
			log.Printf("Processing address %d / %d", done, stats.TotalRecords)
		}
	}

	stats.ProcessingTime = time.Since(start)
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("batch interrupted: %w", err)
	}
	return stats, nil
}

func (p *Processor) process(ctx context.Context, localDebug bool, workerID int, raw address.UnstructuredAddress) result {
	addr := address.ParseDebug(localDebug, raw)
	debug.Record(localDebug, raw.ID(), "parsed by worker %d", workerID)

	if err := p.Sink.Write(ctx, addr); err != nil {
		return result{addr: addr, err: err}
	}
	if p.Linker == nil {
		return result{addr: addr}
	}
	n, err := p.Linker.Update(ctx, addr.ID)
	return result{addr: addr, linked: n, err: err}
}

func (s *BatchStats) add(res result) {
	if res.err != nil {
		s.ErrorCount++
		return
	}
	s.ProcessedCount++
	s.LinkedCount += int(res.linked)
	switch res.addr.Address.(type) {
	case address.PoBox:
		s.PoBoxCount++
	case address.Street:
		s.StreetCount++
	}
	if res.addr.Postal.Code == 0 {
		s.NoPostalCount++
	}
}
