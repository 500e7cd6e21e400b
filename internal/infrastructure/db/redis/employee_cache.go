package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/pkg/metrics"
)

// DefaultEmployeeTTL bounds how long a cached employee may be served.
const DefaultEmployeeTTL = 5 * time.Minute

// EmployeeCache stores employees as JSON under employee:<id>.
type EmployeeCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewEmployeeCache(client redis.Cmdable, ttl time.Duration) *EmployeeCache {
	if ttl <= 0 {
		ttl = DefaultEmployeeTTL
	}
	return &EmployeeCache{client: client, ttl: ttl}
}

// cachedEmployee carries the avatar too, since the anonymous avatar endpoint
// reads through the cache.
type cachedEmployee struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Username    string    `json:"username"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Specialty   string    `json:"specialty"`
	HireDate    time.Time `json:"hire_date"`
	Avatar      []byte    `json:"avatar,omitempty"`
	AvatarType  string    `json:"avatar_type,omitempty"`
	Version     int       `json:"version"`
}

func (c *EmployeeCache) Get(ctx context.Context, id uint) (*domain.Employee, bool, error) {
	raw, err := c.client.Get(ctx, employeeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.EmployeeCacheTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		metrics.EmployeeCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var ce cachedEmployee
	if err := json.Unmarshal(raw, &ce); err != nil {
		metrics.EmployeeCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}

	metrics.EmployeeCacheTotal.WithLabelValues("hit").Inc()
	return &domain.Employee{
		ID:          ce.ID,
		FirstName:   ce.FirstName,
		LastName:    ce.LastName,
		Username:    ce.Username,
		DateOfBirth: ce.DateOfBirth,
		Specialty:   ce.Specialty,
		HireDate:    ce.HireDate,
		Avatar:      ce.Avatar,
		AvatarType:  ce.AvatarType,
		Version:     ce.Version,
	}, true, nil
}

func (c *EmployeeCache) Set(ctx context.Context, e *domain.Employee) error {
	raw, err := json.Marshal(cachedEmployee{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Username:    e.Username,
		DateOfBirth: e.DateOfBirth,
		Specialty:   e.Specialty,
		HireDate:    e.HireDate,
		Avatar:      e.Avatar,
		AvatarType:  e.AvatarType,
		Version:     e.Version,
	})
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, employeeKey(e.ID), raw, c.ttl).Err()
}

func (c *EmployeeCache) Invalidate(ctx context.Context, id uint) error {
	return c.client.Del(ctx, employeeKey(id)).Err()
}

func employeeKey(id uint) string {
	return fmt.Sprintf("employee:%d", id)
}
