package instance

import (
	"os"

	"github.com/homio-app/homio-backend/pkg/env"
)

const EnvWorkerID = "HOMIO_WORKER_ID"

// GetID identifies this process in worker logs: HOMIO_WORKER_ID, then the
// hostname, then "worker-0".
func GetID() string {
	if id := env.Get(EnvWorkerID, ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
