package travel

import (
	"fmt"
	"io"
	"strings"
)

// Transcript is the ordered text log of a planning session.
// Every entry is optionally echoed to a writer as it is appended.
// A Transcript belongs to a single run and is not safe for concurrent use.
type Transcript struct {
	lines []string
	echo  io.Writer
}

// NewTranscript returns an empty transcript echoing to w. A nil w disables echoing.
func NewTranscript(w io.Writer) *Transcript {
	return &Transcript{echo: w}
}

// Log appends one entry. An entry may itself contain newlines.
func (t *Transcript) Log(line string) {
	t.lines = append(t.lines, line)
	if t.echo != nil {
		fmt.Fprintln(t.echo, line)
	}
}

// Logf appends a formatted entry.
func (t *Transcript) Logf(format string, args ...any) {
	t.Log(fmt.Sprintf(format, args...))
}

// Lines returns a copy of the entries logged so far.
func (t *Transcript) Lines() []string {
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

func (t *Transcript) String() string {
	return strings.Join(t.Lines(), "\n")
}
