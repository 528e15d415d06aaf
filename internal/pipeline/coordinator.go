package pipeline

import (
	"context"
	"sync"

	"github.com/MawKKe/copy-tree-map/internal/rules"
	"github.com/MawKKe/copy-tree-map/internal/transcode"
)

// transcodeJob is one unit of work for the worker pool.
type transcodeJob struct {
	relPath string
	req     transcode.Request
}

// coordinator runs transcode jobs across a bounded pool of workers. Each
// worker executes one engine invocation at a time to completion. Results
// flow to the shared results channel; the aggregator goroutine is the only
// mutator of the Summary, so no job outcome is ever lost or raced.
type coordinator struct {
	engine  transcode.Engine
	jobs    chan transcodeJob
	results chan<- JobResult
	wg      sync.WaitGroup
}

func startCoordinator(ctx context.Context, engine transcode.Engine, workers int, results chan<- JobResult) *coordinator {
	if workers < 1 {
		workers = 1
	}
	c := &coordinator{
		engine:  engine,
		jobs:    make(chan transcodeJob),
		results: results,
	}
	for i := 0; i < workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx)
	}
	return c
}

// submit hands one job to the pool. All jobs are submitted before drain is
// called.
func (c *coordinator) submit(job transcodeJob) {
	c.jobs <- job
}

// drain closes the job queue and blocks until every submitted job has
// produced exactly one result.
func (c *coordinator) drain() {
	close(c.jobs)
	c.wg.Wait()
}

func (c *coordinator) worker(ctx context.Context) {
	defer c.wg.Done()
	for job := range c.jobs {
		err := c.engine.Transcode(ctx, job.req)
		res := JobResult{Path: job.relPath, Action: rules.ActionTranscode, Success: err == nil}
		if err != nil {
			res.Detail = err.Error()
		}
		c.results <- res
	}
}
