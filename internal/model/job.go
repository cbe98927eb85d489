package model // import "github.com/Xunop/json2epub/internal/model"

import "time"

const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// Job is one batch conversion of a book document file into an archive file.
type Job struct {
	ID       int
	Input    string
	Output   string
	Status   string
	Size     int64
	Hash     string
	Duration time.Duration
	Err      error
}

type JobList []Job

func (j JobList) Len() int {
	return len(j)
}

// Failed counts the jobs that did not produce an archive.
func (j JobList) Failed() int {
	n := 0
	for _, job := range j {
		if job.Status == JobStatusFailed {
			n++
		}
	}
	return n
}
