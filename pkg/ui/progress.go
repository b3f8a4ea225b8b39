package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 20
)

// StatusTracker keeps track of batch progress
type StatusTracker struct {
	Total     int
	Current   int
	Succeeded int
	Failed    int
	StartTime time.Time
	term      *Terminal
}

// NewStatusTracker creates a tracker for total targets
func NewStatusTracker(term *Terminal, total int) *StatusTracker {
	return &StatusTracker{
		Total:     total,
		StartTime: time.Now(),
		term:      term,
	}
}

// StartTarget prints the header for target i (1-based)
func (st *StatusTracker) StartTarget(i int, username string) {
	st.Current = i
	fmt.Fprintf(st.term.w, "\n%s\n",
		st.term.magenta.Render(fmt.Sprintf("--- Processing target %d of %d: %s ---", i, st.Total, username)))
}

// MarkSuccess counts a completed target
func (st *StatusTracker) MarkSuccess() {
	st.Succeeded++
}

// MarkFailed counts a failed target
func (st *StatusTracker) MarkFailed() {
	st.Failed++
}

// GetProgress returns a progress bar over all targets
func (st *StatusTracker) GetProgress() string {
	done := st.Succeeded + st.Failed
	filled := 0
	if st.Total > 0 {
		filled = done * barWidth / st.Total
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, barWidth-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, done, st.Total)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// PrintWaiting announces the pause before the next target
func (st *StatusTracker) PrintWaiting(delay time.Duration) {
	st.term.PrintStatus(st.term.Dim(fmt.Sprintf("Sleeping for %s to avoid rate-limiting...", delay)))
}

// PrintSummary prints the batch totals
func (st *StatusTracker) PrintSummary() {
	fmt.Fprintf(st.term.w, "\n%s %s\n", st.term.magenta.Render("[BATCH COMPLETE]"), st.term.yellow.Render(st.GetProgress()))
	st.term.PrintInfo("Succeeded", humanize.Comma(int64(st.Succeeded)))
	st.term.PrintInfo("Failed", humanize.Comma(int64(st.Failed)))
	st.term.PrintInfo("Started", humanize.Time(st.StartTime))
}
