// internal/config/database.go
package config

import (
	"fmt"
	"time"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// Timeout is the per-request deadline applied to store calls.
func (d *DatabaseConfig) Timeout() time.Duration {
	if d.QueryTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(d.QueryTimeout) * time.Second
}
