package instance

import "github.com/angelmondragon/orderdesk/pkg/env"

// GetID returns the process instance identifier or "local".
func GetID() string {
	return env.FirstNonEmpty("local", "ORDERDESK_INSTANCE_ID", "DYNO", "HOSTNAME")
}
