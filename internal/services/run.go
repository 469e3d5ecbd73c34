package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// outputTailLimit bounds how much tool output is kept for error messages.
// Generation tools can emit megabytes of progress noise; the useful
// diagnostics sit at the end.
const outputTailLimit = 2048

// RunCommand executes binary with args and waits for completion. On failure
// the returned error carries the trailing portion of the tool's combined
// output.
func RunCommand(ctx context.Context, binary string, args ...string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		if tail := outputTail(output.Bytes()); tail != "" {
			return fmt.Errorf("%w: %s", err, tail)
		}
		return err
	}
	return nil
}

func outputTail(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) <= outputTailLimit {
		return text
	}
	return "... " + text[len(text)-outputTailLimit:]
}
