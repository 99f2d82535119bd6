package scitalk

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TranscriptLog records every AI request and response of one session to a
// plain text file, one file per session.
type TranscriptLog struct {
	mu   sync.Mutex
	file *os.File
}

// OpenTranscriptLog creates the transcript file for a session under dir.
func OpenTranscriptLog(dir, sessionID string) (*TranscriptLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory: %w", err)
	}

	file, err := os.Create(filepath.Join(dir, fmt.Sprintf("%s.log", sessionID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}

	t := &TranscriptLog{file: file}
	t.logf("=== SciTalk Session Transcript ===\n")
	t.logf("Session ID: %s\n", sessionID)
	t.logf("Started: %s\n", time.Now().Format(time.RFC3339))
	t.logf("==================================\n\n")
	return t, nil
}

// logf writes a timestamped entry and flushes it immediately.
func (t *TranscriptLog) logf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(t.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	t.file.Sync()
}

// LogRequest records the prompt sent for one workflow stage.
func (t *TranscriptLog) LogRequest(stage, prompt string) {
	t.logf("=== AI REQUEST (%s) ===\n", stage)
	t.logf("Prompt:\n%s\n", prompt)
	t.logf("=======================\n\n")
}

// LogResponse records the text (or error) received for one workflow stage.
func (t *TranscriptLog) LogResponse(stage, response string) {
	t.logf("=== AI RESPONSE (%s) ===\n", stage)
	t.logf("Response:\n%s\n", response)
	t.logf("========================\n\n")
}

// Close finalizes and closes the transcript file.
func (t *TranscriptLog) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return nil
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(t.file, "[%s] === Session Ended: %s ===\n", timestamp, time.Now().Format(time.RFC3339))
	err := t.file.Close()
	t.file = nil
	return err
}
