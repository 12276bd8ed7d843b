package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func RunLockKey(stage string) string {
	return fmt.Sprintf("pipeline:runlock:%s", stage)
}

func JobStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s", jobID)
}

func RateLimitKey(caller string) string {
	return fmt.Sprintf("ratelimit:%s", caller)
}
