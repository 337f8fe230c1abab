package ledger

import (
	"constructionProject/models"
)

// Applied описывает зачисление части платежа на строку графика
type Applied struct {
	Index  int // индекс строки во входном срезе
	Amount models.Money
}

// Allocate распределяет платеж по непогашенным строкам, начиная с самой ранней.
// Строки изменяются на месте: растет AmountPaid и пересчитывается Status.
// Возвращает список зачислений в порядке погашения и нераспределенный остаток.
func Allocate(installments []models.Installment, amount models.Money) ([]Applied, models.Money) {
	var applied []Applied
	remaining := amount

	for _, i := range Ordered(installments) {
		if remaining <= 0 {
			break
		}
		inst := &installments[i]
		if !isOutstanding(inst.Status) {
			continue
		}

		use := models.Min(remaining, inst.Outstanding())
		if use <= 0 {
			continue
		}

		inst.AmountPaid += use
		remaining -= use
		inst.Status = DeriveStatus(*inst)
		applied = append(applied, Applied{Index: i, Amount: use})
	}

	return applied, remaining
}
