package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"glsllayout/internal/pipeline"
	"glsllayout/internal/ui"
)

type runOutcome struct {
	result pipeline.Result
	err    error
}

func runWithUI(ctx context.Context, title string, req pipeline.Request) (pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Run(ctx, reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.Files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// The UI may quit before the pipeline does; stop it and keep the
	// channel drained so no worker blocks on a send.
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
