package orchestrator

import "fmt"

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (pending)", event.Target)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", event.Target)
	case ProgressComplete:
		if event.Message != "" {
			return fmt.Sprintf("  ✓ %s %s", event.Target, event.Message)
		}
		return fmt.Sprintf("  ✓ %s complete", event.Target)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.Target, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Target)
	}
}

// FormatSummary formats a finished merge as the message of its complete
// event.
func FormatSummary(r *Report) string {
	msg := fmt.Sprintf("-> %s (%d files, %d bytes)", r.Dest, len(r.Emitted), r.Bytes)
	if n := len(r.Excluded); n > 0 {
		msg += fmt.Sprintf(", %d excluded", n)
	}
	return msg
}
