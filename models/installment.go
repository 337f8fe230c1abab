package models

import (
	"time"
)

// InstallmentStatus представляет состояние погашения строки графика
type InstallmentStatus string

const (
	InstallmentStatusDue     InstallmentStatus = "DUE"     // Ожидает оплаты
	InstallmentStatusPartial InstallmentStatus = "PARTIAL" // Оплачена частично
	InstallmentStatusPaid    InstallmentStatus = "PAID"    // Оплачена полностью
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE" // Просрочена
)

// Valid проверяет, что статус входит в перечисление
func (s InstallmentStatus) Valid() bool {
	switch s {
	case InstallmentStatusDue, InstallmentStatusPartial, InstallmentStatusPaid, InstallmentStatusOverdue:
		return true
	}
	return false
}

// Installment представляет строку графика платежей проекта
type Installment struct {
	ID         uint              `gorm:"primaryKey;autoIncrement"`
	ProjectID  uint              `gorm:"column:project_id;not null;index"`
	Sequence   int               `gorm:"column:sequence;not null"`
	DueDate    time.Time         `gorm:"column:due_date;not null"`
	Label      string            `gorm:"column:label;not null;size:100"`
	AmountDue  Money             `gorm:"column:amount_due;not null"`
	AmountPaid Money             `gorm:"column:amount_paid;not null;default:0"`
	Status     InstallmentStatus `gorm:"column:status;type:varchar(20);not null;default:'DUE'"`
	CreatedAt  time.Time         `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Installment) TableName() string {
	return "installments"
}

// Outstanding возвращает непогашенный остаток
func (i Installment) Outstanding() Money {
	return i.AmountDue - i.AmountPaid
}
