// Package pipeline evaluates block files in parallel and reports progress.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"glsllayout/glsl"
	"glsllayout/internal/blockfile"
	"glsllayout/internal/cache"
	"glsllayout/internal/trace"
)

// ConfigFileName is skipped when directories are expanded.
const ConfigFileName = "glsllayout.toml"

// ExpandInputs replaces every directory in paths with the *.toml files
// beneath it, sorted. Plain files are kept as given, in order.
func ExpandInputs(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".toml") && d.Name() != ConfigFileName {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		slices.Sort(found)
		out = append(out, found...)
	}
	return out, nil
}

// Run evaluates every file of req. Per-file failures are recorded in the
// result and do not stop other files; the returned error is non-nil only
// when ctx is cancelled.
func Run(ctx context.Context, req Request) (Result, error) {
	res := Result{Files: make([]FileResult, len(req.Files))}
	if len(req.Files) == 0 {
		return res, nil
	}
	if !req.Rule.Valid() {
		return res, fmt.Errorf("pipeline: %w", &glsl.LayoutError{Kind: glsl.LayoutErrInvalidRule, Rule: req.Rule})
	}

	for _, path := range req.Files {
		emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Results are written by index, one goroutine per slot.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Files)))
	for i, path := range req.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				res.Files[i] = FileResult{Path: path, Err: err}
				return err
			}
			res.Files[i] = runFile(gctx, req, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

func runFile(ctx context.Context, req Request, path string) FileResult {
	ctx, span := trace.BeginFromContext(ctx, trace.ScopeFile, "file:"+path)
	started := time.Now()
	phase := req.Timer.Begin("file", path)

	out := runFileStages(ctx, req, path)

	elapsed := time.Since(started)
	switch {
	case out.Err != nil:
		emit(req.Progress, Event{File: path, Stage: StageLayout, Status: StatusError, Err: out.Err, Elapsed: elapsed})
		req.Timer.End(phase, "error")
		span.Fail(out.Err)
	case out.Cached:
		emit(req.Progress, Event{File: path, Stage: StageLayout, Status: StatusCached, Elapsed: elapsed, Structs: len(out.Layouts)})
		req.Timer.End(phase, "cached")
		span.WithExtra("cached", "true").End("")
	default:
		emit(req.Progress, Event{File: path, Stage: StageLayout, Status: StatusDone, Elapsed: elapsed, Structs: len(out.Layouts)})
		req.Timer.End(phase, strconv.Itoa(len(out.Layouts))+" structs")
		span.WithExtra("structs", strconv.Itoa(len(out.Layouts))).End("")
	}
	return out
}

func runFileStages(ctx context.Context, req Request, path string) FileResult {
	out := FileResult{Path: path}
	tracer := trace.FromContext(ctx)
	parent := trace.ParentID(ctx)

	emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	data, err := os.ReadFile(path)
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", path, err)
		return out
	}

	key := cache.KeyFor(data, req.Rule, req.ForceRule)
	if req.Cache != nil {
		payload, ok, err := req.Cache.Get(key)
		switch {
		case err != nil:
			// A corrupt entry is recomputed and overwritten.
			trace.Point(tracer, trace.ScopeFile, "cache", "unreadable entry: "+err.Error(), parent)
		case ok:
			trace.Point(tracer, trace.ScopeFile, "cache", "hit "+key.String()[:12], parent)
			out.Rule, out.Layouts, out.Cached = payload.Rule, payload.Layouts, true
			return out
		}
	}

	parse := req.Timer.Begin("parse", path)
	file, err := blockfile.Parse(path, data)
	req.Timer.End(parse, "")
	if err != nil {
		out.Err = err
		return out
	}
	out.Rule = req.Rule
	if file.HasRule && !req.ForceRule {
		out.Rule = file.Rule
	}

	emit(req.Progress, Event{File: path, Stage: StageLayout, Status: StatusWorking})
	layout := req.Timer.Begin("layout", path)
	defer req.Timer.End(layout, out.Rule.String())
	out.Layouts = make([]*glsl.StructLayout, 0, len(file.Structs))
	for _, def := range file.Structs {
		if err := ctx.Err(); err != nil {
			out.Err = err
			return out
		}
		l, err := layoutTraced(ctx, def, out.Rule)
		if err != nil {
			out.Err = fmt.Errorf("%s: %w", path, err)
			return out
		}
		out.Layouts = append(out.Layouts, l)
	}

	if req.Cache != nil {
		if err := req.Cache.Put(key, &cache.Payload{Path: path, Rule: out.Rule, Layouts: out.Layouts}); err != nil {
			trace.Point(tracer, trace.ScopeFile, "cache", "write failed: "+err.Error(), parent)
		}
	}
	return out
}

func layoutTraced(ctx context.Context, def *glsl.StructDef, rule glsl.Rule) (*glsl.StructLayout, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeStruct, "struct:"+def.Name, trace.ParentID(ctx))
	l, err := glsl.LayoutStruct(def, rule)
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	for _, m := range l.Members {
		trace.Point(tracer, trace.ScopeMember, "member:"+m.Name,
			fmt.Sprintf("offset=%d align=%d size=%d", m.Offset, m.Align, m.Size), span.ID())
	}
	span.WithExtra("align", strconv.FormatUint(uint64(l.Align), 10)).
		WithExtra("size", strconv.FormatUint(uint64(l.Size), 10)).
		End(rule.String())
	return l, nil
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
