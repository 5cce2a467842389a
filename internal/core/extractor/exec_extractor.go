package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExecExtractor shells out to an external single-file-in, text-out converter
// (markitdown by default) and captures its stdout as the extracted text.
type ExecExtractor struct {
	Command string
	Args    []string // placed before the file path
	Timeout time.Duration
}

func NewExecExtractor(command string, timeout time.Duration) *ExecExtractor {
	if command == "" {
		command = "markitdown"
	}
	return &ExecExtractor{Command: command, Timeout: timeout}
}

func (e *ExecExtractor) Extract(ctx context.Context, filePath string) (string, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := append(append([]string(nil), e.Args...), filePath)
	cmd := exec.CommandContext(ctx, e.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("converter %s: %s", e.Command, msg)
	}
	// A converter that only complained on stderr produced nothing usable.
	if stdout.Len() == 0 && stderr.Len() > 0 {
		return "", fmt.Errorf("converter %s: %s", e.Command, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

var _ Extractor = (*ExecExtractor)(nil)
