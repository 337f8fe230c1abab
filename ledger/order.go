// Package ledger содержит чистые правила работы с графиком платежей проекта:
// порядок погашения, распределение поступлений, вывод статусов строк,
// пометку просрочек и переход проекта после оплаты задатка.
// Пакет не обращается к базе данных и не читает системное время.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"constructionProject/models"
)

// Less задает полный порядок строк графика: дата платежа, затем порядковый номер.
// ID используется только чтобы порядок не зависел от порядка выборки из хранилища.
func Less(a, b models.Installment) bool {
	da, db := DateOf(a.DueDate), DateOf(b.DueDate)
	if !da.Equal(db) {
		return da.Before(db)
	}
	if a.Sequence != b.Sequence {
		return a.Sequence < b.Sequence
	}
	return a.ID < b.ID
}

// Ordered возвращает индексы строк в порядке погашения
func Ordered(installments []models.Installment) []int {
	idx := make([]int, len(installments))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return Less(installments[idx[i]], installments[idx[j]])
	})
	return idx
}

// DateOf отбрасывает время суток, оставляя календарную дату в UTC.
// Драйвер и системные часы могут вернуть время в локальной зоне сервера.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsDepositLabel сравнивает метку строки с меткой задатка без учета регистра и пробелов
func IsDepositLabel(label, depositLabel string) bool {
	return strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(depositLabel))
}

// FindDeposit возвращает индекс строки задатка или -1, если ее нет.
// При нескольких совпадениях берется первая в порядке погашения.
func FindDeposit(installments []models.Installment, depositLabel string) int {
	for _, i := range Ordered(installments) {
		if IsDepositLabel(installments[i].Label, depositLabel) {
			return i
		}
	}
	return -1
}

// Validate проверяет загруженный график до применения правил
func Validate(installments []models.Installment) error {
	for _, inst := range installments {
		if !inst.Status.Valid() {
			return fmt.Errorf("строка графика %d: неизвестный статус %q", inst.ID, inst.Status)
		}
		if inst.AmountPaid < 0 || inst.AmountPaid > inst.AmountDue {
			return fmt.Errorf("строка графика %d: оплачено %s из %s", inst.ID, inst.AmountPaid, inst.AmountDue)
		}
	}
	return nil
}

// TotalPaid возвращает сумму оплат по всем строкам
func TotalPaid(installments []models.Installment) models.Money {
	var total models.Money
	for _, inst := range installments {
		total += inst.AmountPaid
	}
	return total
}
