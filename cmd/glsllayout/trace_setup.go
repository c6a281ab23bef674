package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"glsllayout/internal/trace"
)

type traceOptions struct {
	output    string
	level     trace.Level
	mode      trace.StorageMode
	ringSize  int
	heartbeat time.Duration
}

func readTraceOptions(cmd *cobra.Command) (traceOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var errs []error
	str := func(name string) string {
		v, err := flags.GetString(name)
		errs = append(errs, err)
		return v
	}

	var opts traceOptions
	opts.output = str("trace")
	levelValue, modeValue := str("trace-level"), str("trace-mode")
	ringSize, err := flags.GetInt("trace-ring-size")
	errs = append(errs, err)
	heartbeat, err := flags.GetDuration("trace-heartbeat")
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		return opts, fmt.Errorf("failed to read trace flags: %w", err)
	}
	opts.ringSize, opts.heartbeat = ringSize, heartbeat

	if opts.level, err = trace.ParseLevel(levelValue); err != nil {
		return opts, err
	}
	// --trace without a level means phase-level tracing.
	if opts.level == trace.LevelOff && opts.output != "" {
		opts.level = trace.LevelPhase
	}
	if opts.mode, err = trace.ParseMode(modeValue); err != nil {
		return opts, err
	}
	return opts, nil
}

// setupTracing attaches a tracer built from the --trace flags to the
// command's context and opens a command span. The returned cleanup ends the
// span, stops the heartbeat and flushes the tracer.
func setupTracing(cmd *cobra.Command) (func(), error) {
	opts, err := readTraceOptions(cmd)
	if err != nil {
		return nil, err
	}
	if opts.level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(trace.Config{
		Level:      opts.level,
		Mode:       opts.mode,
		OutputPath: opts.output,
		RingSize:   opts.ringSize,
		Heartbeat:  opts.heartbeat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx, span := trace.BeginFromContext(ctx, trace.ScopeCommand, cmd.CommandPath())
	cmd.SetContext(ctx)
	heartbeat := trace.StartHeartbeat(tracer, opts.heartbeat)

	return func() {
		heartbeat.Stop()
		span.End("")
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
	}, nil
}
