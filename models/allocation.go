package models

import (
	"time"
)

// Allocation фиксирует, какая часть платежа ушла на погашение строки графика
type Allocation struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	PaymentID     uint      `gorm:"column:payment_id;not null;index"`
	ProjectID     uint      `gorm:"column:project_id;not null;index"`
	InstallmentID uint      `gorm:"column:installment_id;not null;index"`
	Amount        Money     `gorm:"column:amount;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (Allocation) TableName() string {
	return "allocations"
}
