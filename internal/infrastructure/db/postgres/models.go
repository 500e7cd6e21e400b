package postgres

import (
	"time"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type employeeModel struct {
	ID              uint      `gorm:"primaryKey"`
	FirstName       string    `gorm:"size:100;not null"`
	LastName        string    `gorm:"size:100;not null"`
	Username        string    `gorm:"size:100;not null;uniqueIndex"`
	DateOfBirth     time.Time `gorm:"type:date"`
	Specialty       string    `gorm:"size:100;not null"`
	HireDate        time.Time `gorm:"type:date"`
	AvatarImage     []byte
	AvatarImageType string `gorm:"size:100"`
	Version         int    `gorm:"not null;default:1"`
}

func (employeeModel) TableName() string { return "employees" }

type taskModel struct {
	ID          uint           `gorm:"primaryKey"`
	Title       string         `gorm:"size:200;not null"`
	Description string         `gorm:"size:2000"`
	IsCompleted bool           `gorm:"not null;default:false"`
	EmployeeID  uint           `gorm:"not null;index"`
	Employee    *employeeModel `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Version     int            `gorm:"not null;default:1"`
}

func (taskModel) TableName() string { return "tasks" }

type commentModel struct {
	ID             uint       `gorm:"primaryKey"`
	TaskID         uint       `gorm:"not null;index"`
	Task           *taskModel `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Content        string     `gorm:"size:1000;not null"`
	AuthorUsername string     `gorm:"size:100;not null"`
	Timestamp      time.Time  `gorm:"not null"`
}

func (commentModel) TableName() string { return "comments" }

type notificationModel struct {
	ID                uint      `gorm:"primaryKey"`
	RecipientUsername string    `gorm:"size:100;not null;index"`
	Message           string    `gorm:"size:500;not null"`
	IsRead            bool      `gorm:"not null;default:false"`
	Timestamp         time.Time `gorm:"not null"`
	TaskID            *uint
}

func (notificationModel) TableName() string { return "notifications" }

func employeeFromDomain(e *domain.Employee) *employeeModel {
	return &employeeModel{
		ID:              e.ID,
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		Username:        e.Username,
		DateOfBirth:     e.DateOfBirth,
		Specialty:       e.Specialty,
		HireDate:        e.HireDate,
		AvatarImage:     e.Avatar,
		AvatarImageType: e.AvatarType,
		Version:         e.Version,
	}
}

func (m *employeeModel) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Username:    m.Username,
		DateOfBirth: m.DateOfBirth,
		Specialty:   m.Specialty,
		HireDate:    m.HireDate,
		Avatar:      m.AvatarImage,
		AvatarType:  m.AvatarImageType,
		Version:     m.Version,
	}
}

func taskFromDomain(t *domain.Task) *taskModel {
	return &taskModel{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		EmployeeID:  t.EmployeeID,
		Version:     t.Version,
	}
}

func (m *taskModel) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		IsCompleted: m.IsCompleted,
		EmployeeID:  m.EmployeeID,
		Version:     m.Version,
	}
	if m.Employee != nil {
		e := m.Employee.toDomain()
		e.Avatar, e.AvatarType = nil, ""
		t.Employee = e
	}
	return t
}

func (m *commentModel) toDomain() domain.Comment {
	return domain.Comment{
		ID:             m.ID,
		TaskID:         m.TaskID,
		Content:        m.Content,
		AuthorUsername: m.AuthorUsername,
		Timestamp:      m.Timestamp,
	}
}

func (m *notificationModel) toDomain() domain.Notification {
	return domain.Notification{
		ID:                m.ID,
		RecipientUsername: m.RecipientUsername,
		Message:           m.Message,
		IsRead:            m.IsRead,
		Timestamp:         m.Timestamp,
		TaskID:            m.TaskID,
	}
}
