package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateRunID generates a unique identifier for a pipeline run
func GenerateRunID() string {
	id := uuid.New().String()

	return fmt.Sprintf("run-%s", id[:8])
}

// RunTimestamp formats a run start time the way output artifacts are
// namespaced: local time, second precision.
func RunTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

func formatInt(n int) string {
	return fmt.Sprintf("%d", n)
}
