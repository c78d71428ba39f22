package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"flexir/internal/pipeline"
)

// Run drives work with a live progress view on out. work receives the sink to
// report through; the view exits once work returns.
func Run[T any](title string, files []string, out io.Writer, work func(sink pipeline.ProgressSink) T) (T, error) {
	events := make(chan pipeline.Event, 256)
	outcome := make(chan T, 1)
	go func() {
		res := work(pipeline.ChannelSink{Ch: events})
		close(events)
		outcome <- res
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep draining so work never blocks on a full channel
		go func() {
			for range events {
			}
		}()
	}
	return <-outcome, uiErr
}
