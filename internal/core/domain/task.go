package domain

import "time"

// Task is a unit of work assigned to exactly one employee.
type Task struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsCompleted bool      `json:"isCompleted"`
	EmployeeID  uint      `json:"employeeId"`
	Employee    *Employee `json:"employee,omitempty"`
	Version     int       `json:"version"`
}

// TaskFilter narrows a task listing. Nil or empty fields do not filter.
type TaskFilter struct {
	Title       string
	Description string
	IsCompleted *bool
	EmployeeID  *uint
}

// Comment is a note left on a task by an authenticated user.
type Comment struct {
	ID             uint      `json:"id"`
	TaskID         uint      `json:"taskId"`
	Content        string    `json:"content"`
	AuthorUsername string    `json:"authorUsername"`
	Timestamp      time.Time `json:"timestamp"`
}

// Notification is an unread/read message addressed to a username.
type Notification struct {
	ID                uint      `json:"id"`
	RecipientUsername string    `json:"recipientUsername"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"isRead"`
	Timestamp         time.Time `json:"timestamp"`
	TaskID            *uint     `json:"taskId,omitempty"`
}

// TaskStats is the dashboard summary.
type TaskStats struct {
	TotalEmployees int64 `json:"totalEmployees,omitempty"`
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
}
