package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"addonlint/internal/driver"
	"addonlint/internal/ui"
)

type validateOutcome struct {
	result *driver.Result
	err    error
}

// runValidateWithUI runs the validation on a goroutine while the progress
// view consumes its events on this one.
func runValidateWithUI(ctx context.Context, out io.Writer, title, path string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan validateOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink(events)
		res, err := driver.ValidatePath(ctx, path, optsCopy)
		outcomeCh <- validateOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// The view may quit early; keep draining so the sender never blocks.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
