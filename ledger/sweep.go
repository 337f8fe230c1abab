package ledger

import (
	"fmt"
	"time"

	"constructionProject/models"
)

// SweepOverdue помечает просроченными строки DUE и PARTIAL, срок которых
// строго раньше текущей даты. Возвращает индексы измененных строк.
func SweepOverdue(installments []models.Installment, now time.Time) []int {
	today := DateOf(now)
	var flipped []int

	for i := range installments {
		inst := &installments[i]
		switch inst.Status {
		case models.InstallmentStatusDue, models.InstallmentStatusPartial:
			if DateOf(inst.DueDate).Before(today) {
				inst.Status = models.InstallmentStatusOverdue
				flipped = append(flipped, i)
			}
		case models.InstallmentStatusPaid, models.InstallmentStatusOverdue:
		default:
			panic(fmt.Sprintf("ledger: неизвестный статус строки %q", inst.Status))
		}
	}

	return flipped
}
