package worker

import (
	"sort"
	"sync"

	"github.com/Xunop/json2epub/internal/model"
)

type WorkPool interface {
	Push(job model.Job)
}

// ConvertPool runs conversion jobs on a fixed number of workers.
type ConvertPool struct {
	queue   chan model.Job
	results chan model.Job
	wg      sync.WaitGroup
}

var _ WorkPool = (*ConvertPool)(nil)

func NewConvertPool(size int, convert ConvertFunc) *ConvertPool {
	if size < 1 {
		size = 1
	}
	pool := &ConvertPool{
		queue:   make(chan model.Job),
		results: make(chan model.Job, size),
	}

	pool.wg.Add(size)
	for i := 0; i < size; i++ {
		worker := &ConvertWorker{id: i, convert: convert, results: pool.results}
		go func() {
			defer pool.wg.Done()
			worker.Run(pool.queue)
		}()
	}
	go func() {
		pool.wg.Wait()
		close(pool.results)
	}()

	return pool
}

// Implement WorkPool interface
func (p *ConvertPool) Push(job model.Job) {
	p.queue <- job
}

// Close stops accepting jobs. Results is closed once the queued jobs are
// finished.
func (p *ConvertPool) Close() {
	close(p.queue)
}

func (p *ConvertPool) Results() <-chan model.Job {
	return p.results
}

// Run pushes jobs, closes the pool and returns the finished jobs sorted by
// ID.
func (p *ConvertPool) Run(jobs []model.Job) model.JobList {
	go func() {
		for _, job := range jobs {
			p.Push(job)
		}
		p.Close()
	}()

	done := make(model.JobList, 0, len(jobs))
	for job := range p.results {
		done = append(done, job)
	}
	sort.Slice(done, func(i, j int) bool { return done[i].ID < done[j].ID })
	return done
}
