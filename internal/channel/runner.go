package channel

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/notesctl/notesctl/internal/errors"
)

// DefaultTimeout bounds one automation round trip. The host application
// can stall indefinitely when it is mid-sync or showing a modal dialog.
const DefaultTimeout = 30 * time.Second

// Runner executes one automation script and returns its stdout.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// OSARunner executes scripts through the system osascript binary.
type OSARunner struct {
	Timeout time.Duration
}

func (r *OSARunner) Run(ctx context.Context, script string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewChannelTimeout(timeout.Milliseconds())
		}
		return "", classifyFailure(stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// classifyFailure maps script stderr onto the error taxonomy. Consent
// failures surface as permission errors with remediation guidance; anything
// else is a rejection carrying the host's diagnostic.
func classifyFailure(stderr string) error {
	detail := strings.TrimSpace(stderr)
	lower := strings.ToLower(detail)
	if strings.Contains(lower, "not allowed") ||
		strings.Contains(lower, "permission") ||
		strings.Contains(lower, "-1743") {
		return errors.NewPermissionDenied()
	}
	return errors.NewChannelRejected(detail)
}
