package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"riptide/internal/buildpipeline"
	"riptide/internal/driver"
	"riptide/internal/ui"
)

type progressMode string

const (
	progressModeAuto progressMode = "auto"
	progressModeOn   progressMode = "on"
	progressModeOff  progressMode = "off"
)

func readProgressMode(value string) (progressMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return progressModeAuto, nil
	case "on":
		return progressModeOn, nil
	case "off":
		return progressModeOff, nil
	default:
		return "", fmt.Errorf("invalid --progress value %q (expected auto|on|off)", value)
	}
}

func shouldUseProgressUI(mode progressMode) bool {
	switch mode {
	case progressModeOn:
		return true
	case progressModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type checkOutcome struct {
	result *driver.ProjectResult
	err    error
}

// runCheckWithUI drives CheckProject behind a Bubble Tea progress view.
// Diagnostics are rendered by the caller after the program exits.
func runCheckWithUI(ctx context.Context, title string, opts driver.ProjectOptions) (*driver.ProjectResult, error) {
	files, err := driver.ListModuleFiles(opts.Root, opts.Manifest)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return driver.CheckProject(ctx, opts)
	}

	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Sink = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.CheckProject(ctx, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
