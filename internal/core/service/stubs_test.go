package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/staffboard/todo-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory repositories
// ---------------------------------------------------------------------------

type memEmployees struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]domain.Employee
	finds  int
}

func newMemEmployees(seed ...domain.Employee) *memEmployees {
	r := &memEmployees{rows: make(map[uint]domain.Employee)}
	for _, e := range seed {
		_ = r.Create(context.Background(), &e)
	}
	return r
}

func (r *memEmployees) Create(_ context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.rows {
		if x.Username == e.Username {
			return domain.ErrDuplicateUsername
		}
	}
	r.nextID++
	e.ID = r.nextID
	e.Version = 1
	r.rows[e.ID] = *e
	return nil
}

func (r *memEmployees) Update(_ context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[e.ID]
	if !ok || cur.Version != e.Version {
		return domain.ErrConcurrencyConflict
	}
	e.Version++
	r.rows[e.ID] = *e
	return nil
}

func (r *memEmployees) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memEmployees) FindByID(_ context.Context, id uint) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	e, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return &e, nil
}

func (r *memEmployees) FindByUsername(_ context.Context, username string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.Username == username {
			return &e, nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

func (r *memEmployees) Exists(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *memEmployees) List(_ context.Context, f domain.EmployeeFilter) ([]domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Employee
	for _, e := range r.rows {
		if f.Name != "" && !strings.Contains(e.FirstName, f.Name) && !strings.Contains(e.LastName, f.Name) {
			continue
		}
		if f.Specialty != "" && !strings.Contains(e.Specialty, f.Specialty) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memEmployees) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type memTasks struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]domain.Task
}

func newMemTasks(seed ...domain.Task) *memTasks {
	r := &memTasks{rows: make(map[uint]domain.Task)}
	for _, t := range seed {
		_ = r.Create(context.Background(), &t)
	}
	return r
}

func (r *memTasks) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	t.Version = 1
	r.rows[t.ID] = *t
	return nil
}

func (r *memTasks) Update(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[t.ID]
	if !ok || cur.Version != t.Version {
		return domain.ErrConcurrencyConflict
	}
	t.Version++
	r.rows[t.ID] = *t
	return nil
}

func (r *memTasks) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memTasks) FindByID(_ context.Context, id uint) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r *memTasks) Exists(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *memTasks) match(t domain.Task, f domain.TaskFilter) bool {
	if f.EmployeeID != nil && t.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.IsCompleted != nil && t.IsCompleted != *f.IsCompleted {
		return false
	}
	if f.Title != "" && !strings.Contains(t.Title, f.Title) {
		return false
	}
	if f.Description != "" && !strings.Contains(t.Description, f.Description) {
		return false
	}
	return true
}

func (r *memTasks) List(_ context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Task
	for _, t := range r.rows {
		if r.match(t, f) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTasks) Count(ctx context.Context, f domain.TaskFilter) (int64, error) {
	out, _ := r.List(ctx, f)
	return int64(len(out)), nil
}

type memComments struct {
	mu   sync.Mutex
	rows []domain.Comment
}

func (r *memComments) Create(_ context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *c)
	return nil
}

func (r *memComments) ListByTask(_ context.Context, taskID uint) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, c := range r.rows {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type memNotifications struct {
	mu   sync.Mutex
	rows []domain.Notification
}

func (r *memNotifications) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uint(len(r.rows) + 1)
	r.rows = append(r.rows, *n)
	return nil
}

func (r *memNotifications) ListUnread(_ context.Context, username string) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.rows {
		if n.RecipientUsername == username && !n.IsRead {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *memNotifications) CountUnread(ctx context.Context, username string) (int64, error) {
	out, _ := r.ListUnread(ctx, username)
	return int64(len(out)), nil
}

func (r *memNotifications) MarkRead(_ context.Context, username string, taskID *uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.rows {
		row := &r.rows[i]
		if row.RecipientUsername != username || row.IsRead {
			continue
		}
		if taskID != nil && (row.TaskID == nil || *row.TaskID != *taskID) {
			continue
		}
		row.IsRead = true
		n++
	}
	return n, nil
}

// messagesFor returns the messages addressed to username in creation order.
func (r *memNotifications) messagesFor(username string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.rows {
		if n.RecipientUsername == username {
			out = append(out, n.Message)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Cache stub
// ---------------------------------------------------------------------------

type memCache struct {
	mu          sync.Mutex
	rows        map[uint]domain.Employee
	failGet     bool
	invalidated []uint
}

func newMemCache() *memCache {
	return &memCache{rows: make(map[uint]domain.Employee)}
}

func (c *memCache) Get(_ context.Context, id uint) (*domain.Employee, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errCacheDown
	}
	e, ok := c.rows[id]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

func (c *memCache) Set(_ context.Context, e *domain.Employee) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[e.ID] = *e
	return nil
}

func (c *memCache) Invalidate(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}
