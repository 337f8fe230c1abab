package models

import (
	"time"
)

// PaymentKind представляет вид поступления
type PaymentKind string

const (
	PaymentKindDeposit     PaymentKind = "DEPOSIT"
	PaymentKindInstallment PaymentKind = "INSTALLMENT"
	PaymentKindAdjustment  PaymentKind = "ADJUSTMENT"
)

// Payment представляет поступление денег от заказчика. Запись не изменяется после создания.
type Payment struct {
	ID           uint         `gorm:"primaryKey;autoIncrement"`
	UID          string       `gorm:"column:uid;unique;not null;size:36"`
	ProjectID    uint         `gorm:"column:project_id;not null;index"`
	Kind         PaymentKind  `gorm:"column:kind;type:varchar(20);not null"`
	Amount       Money        `gorm:"column:amount;not null"`
	ReceivedDate time.Time    `gorm:"column:received_date;not null"`
	Reference    string       `gorm:"column:reference;size:100"`
	Method       string       `gorm:"column:method;size:50"`
	Description  string       `gorm:"column:description;size:255"`
	RecordedByID uint         `gorm:"column:recorded_by_id;not null"`
	Allocations  []Allocation `gorm:"foreignKey:PaymentID"`
	CreatedAt    time.Time    `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (Payment) TableName() string {
	return "payments"
}
