package worker // import "github.com/Xunop/json2epub/internal/worker"

import (
	"io"
	"os"
	"time"

	"github.com/Xunop/json2epub/internal/log"
	"github.com/Xunop/json2epub/internal/model"
	"github.com/Xunop/json2epub/internal/storage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Worker interface {
	Run(c <-chan model.Job)
}

// ConvertFunc converts a book document into an archive written to w.
type ConvertFunc func(input []byte, w io.Writer) error

type ConvertWorker struct {
	id      int
	convert ConvertFunc
	results chan<- model.Job
}

// Run converts jobs until c is closed.
func (w *ConvertWorker) Run(c <-chan model.Job) {
	log.Debug("ConvertWorker is running", zap.Int("worker_id", w.id))

	for job := range c {
		log.Debug("Job received by worker",
			zap.Int("worker_id", w.id),
			zap.Int("job_id", job.ID),
			zap.String("input", job.Input))

		job.Status = model.JobStatusRunning
		start := time.Now()
		stored, err := w.process(job)
		job.Duration = time.Since(start)
		if err != nil {
			log.Error("Conversion failed",
				zap.Int("job_id", job.ID),
				zap.String("input", job.Input),
				zap.Error(err))
			job.Status = model.JobStatusFailed
			job.Err = err
		} else {
			job.Status = model.JobStatusDone
			job.Size = stored.Size
			job.Hash = stored.Hash
		}
		w.results <- job
	}
}

func (w *ConvertWorker) process(job model.Job) (*storage.StoredFile, error) {
	input, err := os.ReadFile(job.Input)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read input")
	}
	return storage.StoreFile(job.Output, func(out io.Writer) error {
		return w.convert(input, out)
	})
}
