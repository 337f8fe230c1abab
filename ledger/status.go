package ledger

import (
	"fmt"

	"constructionProject/models"
)

// DeriveStatus вычисляет статус строки после изменения оплаченной суммы.
// PAID окончательный. Нулевая оплата сохраняет DUE или OVERDUE: просрочку
// ставит только проверка просрочек.
func DeriveStatus(inst models.Installment) models.InstallmentStatus {
	switch inst.Status {
	case models.InstallmentStatusPaid:
		return models.InstallmentStatusPaid
	case models.InstallmentStatusDue, models.InstallmentStatusPartial, models.InstallmentStatusOverdue:
	default:
		panic(fmt.Sprintf("ledger: неизвестный статус строки %q", inst.Status))
	}

	switch {
	case inst.AmountPaid >= inst.AmountDue:
		return models.InstallmentStatusPaid
	case inst.AmountPaid > 0:
		return models.InstallmentStatusPartial
	case inst.Status == models.InstallmentStatusOverdue:
		return models.InstallmentStatusOverdue
	default:
		return models.InstallmentStatusDue
	}
}

// isOutstanding сообщает, участвует ли строка в распределении
func isOutstanding(status models.InstallmentStatus) bool {
	switch status {
	case models.InstallmentStatusDue, models.InstallmentStatusPartial, models.InstallmentStatusOverdue:
		return true
	case models.InstallmentStatusPaid:
		return false
	default:
		panic(fmt.Sprintf("ledger: неизвестный статус строки %q", status))
	}
}
