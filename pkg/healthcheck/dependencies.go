package healthcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"
)

// DatabaseChecker pings the relational database.
type DatabaseChecker struct {
	db *gorm.DB
}

// NewDatabaseChecker creates a checker over a GORM connection.
func NewDatabaseChecker(db *gorm.DB) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

func (d *DatabaseChecker) Check(ctx context.Context) Check {
	start := time.Now()

	sqlDB, err := d.db.DB()
	if err != nil {
		return newCheck(start, StatusUnhealthy, fmt.Sprintf("connection unavailable: %v", err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return newCheck(start, StatusUnhealthy, fmt.Sprintf("ping failed: %v", err))
	}

	stats := sqlDB.Stats()
	if stats.OpenConnections > 0 && stats.InUse == stats.OpenConnections {
		return newCheck(start, StatusDegraded, "connection pool saturated")
	}
	return newCheck(start, StatusHealthy, "")
}

// Pinger is the subset of the redis client used for health probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisChecker pings the cache backend. A nil client reports degraded, not
// unhealthy, since the service runs with the local cache tier alone.
type RedisChecker struct {
	client Pinger
}

// NewRedisChecker creates a checker over the redis client.
func NewRedisChecker(client Pinger) *RedisChecker {
	return &RedisChecker{client: client}
}

func (r *RedisChecker) Check(ctx context.Context) Check {
	start := time.Now()

	if r.client == nil {
		return newCheck(start, StatusDegraded, "redis not configured")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.client.Ping(pingCtx); err != nil {
		return newCheck(start, StatusDegraded, fmt.Sprintf("ping failed: %v", err))
	}
	return newCheck(start, StatusHealthy, "")
}

// ExternalServiceChecker probes an HTTP dependency such as the image search
// provider. Failures report degraded because every external call has a
// fallback path.
type ExternalServiceChecker struct {
	url    string
	client *http.Client
}

// NewExternalServiceChecker creates a checker that GETs the given URL.
func NewExternalServiceChecker(url string, timeout time.Duration) *ExternalServiceChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ExternalServiceChecker{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (e *ExternalServiceChecker) Check(ctx context.Context) Check {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return newCheck(start, StatusDegraded, fmt.Sprintf("bad probe url: %v", err))
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return newCheck(start, StatusDegraded, fmt.Sprintf("unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return newCheck(start, StatusDegraded, fmt.Sprintf("status %d", resp.StatusCode))
	}
	return newCheck(start, StatusHealthy, "")
}
