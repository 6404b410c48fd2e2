// Package picker drives an external interactive fuzzy-picker process (fzf by
// default). One process is spawned per page view: the caller feeds it a list
// of labelled lines and waits for the user's choice.
package picker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Keys the picker is told to "expect": pressing one ends the session and is
// reported back instead of a selection.
const (
	PrevPageKey = "ctrl-p"
	NextPageKey = "ctrl-n"
)

// OutcomeKind classifies how a picker session ended.
type OutcomeKind int

const (
	// Aborted means the user cancelled or the output was unusable.
	Aborted OutcomeKind = iota
	// KeyPrev and KeyNext are the bound paging keys.
	KeyPrev
	KeyNext
	// Selected means an item was confirmed; Outcome.Index holds its
	// position within the page that was shown.
	Selected
)

// Outcome is the decoded terminal output of one picker session.
type Outcome struct {
	Kind  OutcomeKind
	Index int
}

// Session is one live picker process. Feed must be called exactly once, then
// Wait; Kill tears the process down when the surrounding flow fails first.
type Session interface {
	Feed(labels []string) error
	Wait() (Outcome, error)
	Kill()
}

// Opener creates a Session with the given prompt label. The pagination loop
// takes an Opener so tests can substitute a scripted fake.
type Opener func(prompt string) (Session, error)

// Label formats an item for display: the bracketed index lets the decoder
// recover the selection position from the picker's echoed line.
func Label(index int, title string) string {
	return fmt.Sprintf("[%d] %s", index, title)
}

// fzfSession runs fzf with sorting disabled so the provider's relevance
// order survives, and with the paging keys declared via --expect.
type fzfSession struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout bytes.Buffer
}

// Open spawns the picker binary. Its stderr (the interactive UI) is
// inherited; stdout is captured for decoding after exit.
func Open(binary, prompt string) (Session, error) {
	cmd := exec.Command(binary,
		"--no-sort",
		"--reverse",
		"--expect="+PrevPageKey+","+NextPageKey,
		"--prompt="+prompt,
	)
	cmd.Stderr = os.Stderr

	s := &fzfSession{cmd: cmd}
	cmd.Stdout = &s.stdout

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("picker: stdin pipe: %w", err)
	}
	s.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("picker: start %s: %w", binary, err)
	}
	return s, nil
}

func (s *fzfSession) Feed(labels []string) error {
	for _, label := range labels {
		if _, err := fmt.Fprintln(s.stdin, label); err != nil {
			return fmt.Errorf("picker: feed input: %w", err)
		}
	}
	return s.stdin.Close()
}

func (s *fzfSession) Wait() (Outcome, error) {
	err := s.cmd.Wait()
	if err != nil {
		// fzf exits 1 on no match and 130 on cancel; both are
		// ordinary outcomes, not process failures.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Outcome{}, fmt.Errorf("picker: wait: %w", err)
		}
	}
	return DecodeOutcome(s.stdout.String(), PrevPageKey, NextPageKey), nil
}

// Kill terminates an abandoned session. The resulting exit error is
// deliberate cleanup, not something to propagate.
func (s *fzfSession) Kill() {
	_ = s.stdin.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
}

// DecodeOutcome parses the picker's two-line output: the key that ended the
// session (empty when the default confirm key was used) and the chosen label
// line. Anything that doesn't decode to a paging key or a bracketed index is
// an abort.
func DecodeOutcome(raw, prevKey, nextKey string) Outcome {
	if strings.TrimSpace(raw) == "" {
		return Outcome{Kind: Aborted}
	}

	lines := strings.SplitN(strings.TrimRight(raw, "\n"), "\n", 2)
	switch lines[0] {
	case prevKey:
		return Outcome{Kind: KeyPrev}
	case nextKey:
		return Outcome{Kind: KeyNext}
	}

	if len(lines) < 2 {
		return Outcome{Kind: Aborted}
	}
	index, ok := parseLabelIndex(lines[1])
	if !ok {
		return Outcome{Kind: Aborted}
	}
	return Outcome{Kind: Selected, Index: index}
}

func parseLabelIndex(label string) (int, bool) {
	if !strings.HasPrefix(label, "[") {
		return 0, false
	}
	end := strings.Index(label, "]")
	if end < 1 {
		return 0, false
	}
	index, err := strconv.Atoi(label[1:end])
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
