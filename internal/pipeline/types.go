package pipeline

import (
	"errors"
	"time"

	"glsllayout/glsl"
	"glsllayout/internal/cache"
	"glsllayout/internal/observ"
)

// Stage describes a pipeline phase for one file.
type Stage string

const (
	// StageLoad reads and parses the block file.
	StageLoad Stage = "load"
	// StageLayout lays out every struct in the file.
	StageLayout Stage = "layout"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusCached indicates the result came from the disk cache.
	StatusCached Status = "cached"
	// StatusDone indicates the file finished successfully.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for one file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Structs is the number of laid-out structs, set on done and cached.
	Structs int
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// Request describes one batch evaluation.
type Request struct {
	Files []string
	// Rule applies to files that do not declare their own, or to every
	// file when ForceRule is set.
	Rule      glsl.Rule
	ForceRule bool
	// Jobs caps the number of files evaluated at once; <= 0 means
	// GOMAXPROCS.
	Jobs     int
	Cache    *cache.Cache
	Progress ProgressSink
	Timer    *observ.Timer
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Path    string
	Rule    glsl.Rule
	Layouts []*glsl.StructLayout
	Cached  bool
	Err     error
}

// Result holds per-file results in input order.
type Result struct {
	Files []FileResult
}

// Err joins the errors of every failed file, or returns nil.
func (r Result) Err() error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}

// Failed counts files with an error.
func (r Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}
