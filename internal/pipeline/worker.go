package pipeline

import (
	"context"
	"sync"
)

// Config holds options for the worker pool.
type Config struct {
	Threads int
	Fields  []string // plugin fields requested on the command line
}

// RunWorkerPool fans log files out across workers and returns a channel of
// results in completion order. The channel is closed when all files have
// been processed or ctx is cancelled.
func RunWorkerPool(ctx context.Context, paths []string, cfg Config) <-chan Result {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	jobsCh := make(chan Job, threads*2)
	resultsCh := make(chan Result, threads*2)

	var wg sync.WaitGroup

	// Producer: feed jobs into channel.
	go func() {
		defer close(jobsCh)
		for i, p := range paths {
			select {
			case jobsCh <- Job{Index: i, Path: p}:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Workers: consume jobs, produce results.
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobsCh {
				select {
				case resultsCh <- Process(job, cfg.Fields):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Closer: when all workers finish, close the results channel.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	return resultsCh
}

// Ordered re-sequences results by Index so rows come out in input order no
// matter how many workers produced them. Results that arrive early are
// held until the gap before them is filled.
func Ordered(ctx context.Context, results <-chan Result) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		pending := make(map[int]Result)
		next := 0
		for r := range results {
			pending[r.Index] = r
			for {
				ready, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				select {
				case out <- ready:
				case <-ctx.Done():
					return
				}
				next++
			}
		}
	}()
	return out
}
