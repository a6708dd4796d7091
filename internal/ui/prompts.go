package ui

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Candidate is the minimal description a search-selection prompt needs;
// the orchestrator (C13) is responsible for turning a scorer.Candidate
// into one of these, so this package never imports the scorer or provider
// packages.
type Candidate struct {
	Label      string
	Confidence float64
}

// SearchOutcome is the operator's response to a search candidate prompt.
type SearchOutcome int

const (
	SearchOutcomeSkip SearchOutcome = iota
	SearchOutcomeSelect
	SearchOutcomeCancel
)

// SearchResult is the full response to SelectSearchCandidate. Index is
// only meaningful when Outcome is SearchOutcomeSelect.
type SearchResult struct {
	Outcome SearchOutcome
	Index   int
}

// Prompter serializes the three §6.3 interaction points behind a single
// mutex, so at most one prompt is ever in flight regardless of how many
// workers are running concurrently. A non-interactive Prompter resolves
// every prompt to its documented safe default without touching in/out.
type Prompter struct {
	mu          sync.Mutex
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	log         *slog.Logger
}

// New constructs a Prompter over explicit reader/writer, for tests and
// for callers that want to force interactive mode regardless of the
// process's actual stdio.
func New(in io.Reader, out io.Writer, interactive bool, log *slog.Logger) *Prompter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: interactive, log: log}
}

// NewForTerminal constructs a Prompter bound to the process's actual
// stdin/stdout, auto-detecting whether stdin is a TTY.
func NewForTerminal(log *slog.Logger) *Prompter {
	return New(os.Stdin, os.Stdout, isatty.IsTerminal(os.Stdin.Fd()), log)
}

// ConfirmIntegrityCleanup prompts before removing catalog entries whose
// ROMs no longer exist on disk. Default: no.
func (p *Prompter) ConfirmIntegrityCleanup(platform string, missingCount, totalEntries int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		p.log.Debug("non-interactive run, auto-resolving integrity cleanup prompt to no",
			slog.String("platform", platform))
		return false
	}

	message := fmt.Sprintf("Platform %s: %d of %d catalog entries no longer have a matching ROM. Remove them and move their media to CLEANUP?",
		platform, missingCount, totalEntries)
	return p.confirm(message, false)
}

// ConfirmMediaTypeCleanup prompts before moving a previously-fetched
// media type's files into the CLEANUP tree after the type was disabled
// in configuration. Default: no.
func (p *Prompter) ConfirmMediaTypeCleanup(platform, mediaType string, fileCount int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		p.log.Debug("non-interactive run, auto-resolving media-type cleanup prompt to no",
			slog.String("platform", platform), slog.String("media_type", mediaType))
		return false
	}

	message := fmt.Sprintf("Platform %s: media type %q is no longer enabled. Move its %d existing file(s) to CLEANUP?",
		platform, mediaType, fileCount)
	return p.confirm(message, false)
}

// SelectSearchCandidate surfaces name-search results when no candidate
// met the match threshold and interactive mode is enabled. Default: skip.
func (p *Prompter) SelectSearchCandidate(basename string, candidates []Candidate) SearchResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		p.log.Debug("non-interactive run, auto-resolving search candidate prompt to skip",
			slog.String("basename", basename))
		return SearchResult{Outcome: SearchOutcomeSkip}
	}
	if len(candidates) == 0 {
		return SearchResult{Outcome: SearchOutcomeSkip}
	}

	fmt.Fprintf(p.out, "\nNo confident match for %q. Candidates:\n", basename)
	for i, c := range candidates {
		fmt.Fprintf(p.out, "  %d. %s (confidence %.2f)\n", i+1, c.Label, c.Confidence)
	}
	fmt.Fprintf(p.out, "Select a number, or [s]kip / [c]ancel [s]: ")

	for {
		line, err := p.readLine()
		if err != nil {
			return SearchResult{Outcome: SearchOutcomeSkip}
		}
		response := strings.ToLower(strings.TrimSpace(line))
		switch response {
		case "", "s", "skip":
			return SearchResult{Outcome: SearchOutcomeSkip}
		case "c", "cancel":
			return SearchResult{Outcome: SearchOutcomeCancel}
		}
		if n, convErr := strconv.Atoi(response); convErr == nil && n >= 1 && n <= len(candidates) {
			return SearchResult{Outcome: SearchOutcomeSelect, Index: n - 1}
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d, 's', or 'c': ", len(candidates))
	}
}

func (p *Prompter) confirm(message string, defaultYes bool) bool {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s: ", message, suffix)

	for {
		line, err := p.readLine()
		if err != nil {
			return defaultYes
		}
		response := strings.ToLower(strings.TrimSpace(line))
		switch response {
		case "":
			return defaultYes
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			fmt.Fprintf(p.out, "Please enter 'y' or 'n': ")
		}
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	return line, nil
}
