// Package batch converts many MIDI files concurrently. Every file gets its
// own conversion state, so workers share nothing but the result slice.
package batch

import (
	"github.com/remeh/sizedwaitgroup"

	"midi2text/convert"
	"midi2text/debug"
)

// Job is one file to convert.
type Job struct {
	Source string
	Dest   string
}

// Outcome is the result of one job; Err is nil on success.
type Outcome struct {
	Job    Job
	Result convert.Result
	Err    error
}

// Jobs pairs each source with its default destination inside outDir
// (next to the source when outDir is empty).
func Jobs(sources []string, outDir string) []Job {
	jobs := make([]Job, len(sources))
	for i, src := range sources {
		jobs[i] = Job{Source: src, Dest: convert.DefaultDest(src, outDir)}
	}
	return jobs
}

// Run converts all jobs with at most workers running at once. Outcomes
// are returned in job order.
func Run(jobs []Job, workers int) []Outcome {
	if workers < 1 {
		workers = 1
	}

	out := make([]Outcome, len(jobs))
	swg := sizedwaitgroup.New(workers)
	for i, job := range jobs {
		swg.Add()
		go func(i int, job Job) {
			defer swg.Done()
			res, err := convert.ConvertFile(job.Source, job.Dest)
			if err != nil {
				debug.Log("batch", "%s: %v", job.Source, err)
			}
			out[i] = Outcome{Job: job, Result: res, Err: err}
		}(i, job)
	}
	swg.Wait()

	return out
}

// Failed returns the outcomes that ended in an error.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
