package models

import (
	"time"
)

// ProjectStatus представляет этап жизненного цикла проекта
type ProjectStatus string

const (
	ProjectStatusCreated        ProjectStatus = "CREATED"
	ProjectStatusDepositPending ProjectStatus = "DEPOSIT_PENDING"
	ProjectStatusPlanned        ProjectStatus = "PLANNED"
	ProjectStatusInProgress     ProjectStatus = "IN_PROGRESS"
	ProjectStatusOnHold         ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted      ProjectStatus = "COMPLETED"
	ProjectStatusCancelled      ProjectStatus = "CANCELLED"
)

// Valid проверяет, что статус входит в перечисление
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusCreated, ProjectStatusDepositPending, ProjectStatusPlanned,
		ProjectStatusInProgress, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// Project представляет строительный проект, по которому выставляются платежи
type Project struct {
	ID           uint          `gorm:"primaryKey;autoIncrement"`
	Name         string        `gorm:"column:name;not null;size:200"`
	ManagerEmail string        `gorm:"column:manager_email;size:100"`
	Status       ProjectStatus `gorm:"column:status;type:varchar(20);not null;default:'CREATED'"`
	Version      int64         `gorm:"column:version;not null;default:0"` // увеличивается при каждом изменении графика
	Installments []Installment `gorm:"foreignKey:ProjectID"`
	Payments     []Payment     `gorm:"foreignKey:ProjectID"`
	CreatedAt    time.Time     `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Project) TableName() string {
	return "projects"
}
