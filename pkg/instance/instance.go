package instance

import "github.com/angelmondragon/foodorder-backend/pkg/env"

// GetID returns the worker instance identifier or a default value.
func GetID() string {
	return env.Get("FOODORDER_WORKER_ID", "outbox-publisher-0")
}
