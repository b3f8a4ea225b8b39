package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTerminalNoColor(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, true)

	term.PrintLogo()
	term.PrintNotice()
	term.PrintError("fetch failed", errors.New("boom"))
	term.PrintSuccess("done")
	term.PrintInfo("Loaded", "3 usernames")
	term.PrintWarning("careful")
	term.PrintHighlight("hi")

	out := buf.String()
	assert.Contains(t, out, Tagline)
	assert.Contains(t, out, AuthorizedUseNotice)
	assert.Contains(t, out, "[-] fetch failed: boom")
	assert.Contains(t, out, "[+] done")
	assert.Contains(t, out, "[*] Loaded: 3 usernames")
	assert.Contains(t, out, "[!] careful")
	assert.NotContains(t, out, "\x1b[")
	assert.Same(t, &buf, term.Writer())
}

func TestStatusTracker(t *testing.T) {
	var buf bytes.Buffer
	st := NewStatusTracker(NewTerminal(&buf, true), 4)

	st.StartTarget(1, "alice")
	st.MarkSuccess()
	st.StartTarget(2, "bob")
	st.MarkFailed()
	st.PrintWaiting(2 * time.Second)

	assert.Contains(t, buf.String(), "--- Processing target 1 of 4: alice ---")
	assert.Contains(t, buf.String(), "--- Processing target 2 of 4: bob ---")
	assert.Contains(t, buf.String(), "Sleeping for 2s")
	assert.Equal(t, 2, st.Current)
	assert.Equal(t, "[██████████░░░░░░░░░░] 2/4", st.GetProgress())

	buf.Reset()
	st.PrintSummary()
	assert.Contains(t, buf.String(), "[BATCH COMPLETE]")
	assert.Contains(t, buf.String(), "Succeeded: 1")
	assert.Contains(t, buf.String(), "Failed: 1")
}

func TestStatusTrackerEmpty(t *testing.T) {
	st := NewStatusTracker(NewTerminal(&bytes.Buffer{}, true), 0)
	assert.Equal(t, "[░░░░░░░░░░░░░░░░░░░░] 0/0", st.GetProgress())
}
