package ledger

import (
	"fmt"

	"constructionProject/models"
)

// DepositGate решает, переводить ли проект в PLANNED.
// Срабатывает только для проектов, ожидающих первого платежа, когда строки
// задатка нет или она оплачена полностью. Для остальных статусов ничего не делает,
// поэтому повторная проверка после перехода безвредна.
func DepositGate(status models.ProjectStatus, installments []models.Installment, depositLabel string) (models.ProjectStatus, bool) {
	switch status {
	case models.ProjectStatusCreated, models.ProjectStatusDepositPending:
	case models.ProjectStatusPlanned, models.ProjectStatusInProgress, models.ProjectStatusOnHold,
		models.ProjectStatusCompleted, models.ProjectStatusCancelled:
		return status, false
	default:
		panic(fmt.Sprintf("ledger: неизвестный статус проекта %q", status))
	}

	i := FindDeposit(installments, depositLabel)
	if i < 0 || installments[i].AmountPaid >= installments[i].AmountDue {
		return models.ProjectStatusPlanned, true
	}
	return status, false
}
