package ledger

import (
	"math/rand"
	"testing"
	"time"

	"constructionProject/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jan10 = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb10 = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	mar10 = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

func schedule() []models.Installment {
	return []models.Installment{
		{ID: 1, Sequence: 1, DueDate: jan10, Label: "Deposit", AmountDue: 1000, Status: models.InstallmentStatusDue},
		{ID: 2, Sequence: 2, DueDate: feb10, Label: "Installment 2", AmountDue: 2000, Status: models.InstallmentStatusDue},
	}
}

func TestAllocatePartialDeposit(t *testing.T) {
	insts := schedule()

	applied, remaining := Allocate(insts, 600)

	assert.Equal(t, []Applied{{Index: 0, Amount: 600}}, applied)
	assert.Equal(t, models.Money(0), remaining)
	assert.Equal(t, models.Money(600), insts[0].AmountPaid)
	assert.Equal(t, models.InstallmentStatusPartial, insts[0].Status)
	assert.Equal(t, models.Money(0), insts[1].AmountPaid)
	assert.Equal(t, models.InstallmentStatusDue, insts[1].Status)
}

func TestAllocateSettlesDepositThenSpills(t *testing.T) {
	insts := schedule()
	insts[0].AmountPaid = 600
	insts[0].Status = models.InstallmentStatusPartial

	applied, remaining := Allocate(insts, 900)

	assert.Equal(t, []Applied{{Index: 0, Amount: 400}, {Index: 1, Amount: 500}}, applied)
	assert.Equal(t, models.Money(0), remaining)
	assert.Equal(t, models.InstallmentStatusPaid, insts[0].Status)
	assert.Equal(t, models.InstallmentStatusPartial, insts[1].Status)
}

func TestAllocateReturnsLeftover(t *testing.T) {
	insts := schedule()
	insts[0].AmountPaid = 1000
	insts[0].Status = models.InstallmentStatusPaid

	applied, remaining := Allocate(insts, 2500)

	assert.Equal(t, []Applied{{Index: 1, Amount: 2000}}, applied)
	assert.Equal(t, models.Money(500), remaining)
	assert.Equal(t, models.Money(2000), insts[1].AmountPaid)
	assert.Equal(t, models.InstallmentStatusPaid, insts[1].Status)
	assert.Len(t, insts, 2)
}

func TestAllocateIgnoresStorageOrder(t *testing.T) {
	insts := []models.Installment{
		{ID: 7, Sequence: 3, DueDate: mar10, AmountDue: 100, Status: models.InstallmentStatusDue},
		{ID: 5, Sequence: 2, DueDate: jan10, AmountDue: 100, Status: models.InstallmentStatusDue},
		{ID: 6, Sequence: 1, DueDate: jan10, AmountDue: 100, Status: models.InstallmentStatusDue},
	}

	applied, _ := Allocate(insts, 150)

	// одинаковая дата: раньше идет меньший порядковый номер
	assert.Equal(t, []Applied{{Index: 2, Amount: 100}, {Index: 1, Amount: 50}}, applied)
	assert.Equal(t, models.Money(0), insts[0].AmountPaid)
}

func TestAllocateOverdueBecomesPartial(t *testing.T) {
	insts := []models.Installment{
		{ID: 1, Sequence: 1, DueDate: jan10, AmountDue: 1000, Status: models.InstallmentStatusOverdue},
	}

	Allocate(insts, 1)

	assert.Equal(t, models.InstallmentStatusPartial, insts[0].Status)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		paid    models.Money
		current models.InstallmentStatus
		want    models.InstallmentStatus
	}{
		{"полностью", 1000, models.InstallmentStatusPartial, models.InstallmentStatusPaid},
		{"частично", 1, models.InstallmentStatusDue, models.InstallmentStatusPartial},
		{"ноль после DUE", 0, models.InstallmentStatusDue, models.InstallmentStatusDue},
		{"ноль остается просроченным", 0, models.InstallmentStatusOverdue, models.InstallmentStatusOverdue},
		{"PAID окончательный", 0, models.InstallmentStatusPaid, models.InstallmentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(models.Installment{AmountDue: 1000, AmountPaid: tt.paid, Status: tt.current})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveStatusUnknownPanics(t *testing.T) {
	assert.Panics(t, func() {
		DeriveStatus(models.Installment{AmountDue: 10, Status: "CANCELED"})
	})
}

func TestSweepOverdue(t *testing.T) {
	insts := []models.Installment{
		{ID: 1, DueDate: jan10, AmountDue: 100, Status: models.InstallmentStatusDue},
		{ID: 2, DueDate: jan10, AmountDue: 100, AmountPaid: 50, Status: models.InstallmentStatusPartial},
		{ID: 3, DueDate: jan10, AmountDue: 100, AmountPaid: 100, Status: models.InstallmentStatusPaid},
		{ID: 4, DueDate: feb10, AmountDue: 100, Status: models.InstallmentStatusDue},
	}

	// срок 10 февраля сегодня еще не истек
	flipped := SweepOverdue(insts, feb10.Add(23*time.Hour))

	assert.Equal(t, []int{0, 1}, flipped)
	assert.Equal(t, models.InstallmentStatusOverdue, insts[0].Status)
	assert.Equal(t, models.InstallmentStatusOverdue, insts[1].Status)
	assert.Equal(t, models.InstallmentStatusPaid, insts[2].Status)
	assert.Equal(t, models.InstallmentStatusDue, insts[3].Status)

	assert.Empty(t, SweepOverdue(insts, feb10))
}

func TestSweepOverdueIgnoresServerZone(t *testing.T) {
	edt := time.FixedZone("EDT", -4*60*60)
	due := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	insts := []models.Installment{
		// так строку возвращает драйвер на сервере в зоне UTC-4
		{ID: 1, DueDate: due.In(edt), AmountDue: 100, Status: models.InstallmentStatusDue},
	}

	flipped := SweepOverdue(insts, time.Date(2026, 10, 17, 10, 0, 0, 0, edt))
	assert.Empty(t, flipped)
	assert.Equal(t, models.InstallmentStatusDue, insts[0].Status)

	flipped = SweepOverdue(insts, time.Date(2026, 10, 17, 21, 0, 0, 0, edt))
	assert.Equal(t, []int{0}, flipped)
}

func TestDateOf(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), DateOf(time.Date(2026, 10, 17, 8, 0, 0, 0, tokyo)))
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), DateOf(time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC)))
}

func TestDepositGate(t *testing.T) {
	t.Run("задаток оплачен частично", func(t *testing.T) {
		insts := schedule()
		insts[0].AmountPaid = 600
		status, fired := DepositGate(models.ProjectStatusDepositPending, insts, "Deposit")
		assert.False(t, fired)
		assert.Equal(t, models.ProjectStatusDepositPending, status)
	})

	t.Run("задаток оплачен", func(t *testing.T) {
		insts := schedule()
		insts[0].AmountPaid = 1000
		status, fired := DepositGate(models.ProjectStatusCreated, insts, " deposit ")
		assert.True(t, fired)
		assert.Equal(t, models.ProjectStatusPlanned, status)
	})

	t.Run("строки задатка нет", func(t *testing.T) {
		insts := schedule()[1:]
		status, fired := DepositGate(models.ProjectStatusCreated, insts, "Deposit")
		assert.True(t, fired)
		assert.Equal(t, models.ProjectStatusPlanned, status)
	})

	t.Run("проект уже запланирован", func(t *testing.T) {
		insts := schedule()
		insts[0].AmountPaid = 1000
		for _, s := range []models.ProjectStatus{
			models.ProjectStatusPlanned, models.ProjectStatusInProgress, models.ProjectStatusOnHold,
			models.ProjectStatusCompleted, models.ProjectStatusCancelled,
		} {
			status, fired := DepositGate(s, insts, "Deposit")
			assert.False(t, fired)
			assert.Equal(t, s, status)
		}
	})

	t.Run("неизвестный статус", func(t *testing.T) {
		assert.Panics(t, func() { DepositGate("ARCHIVED", schedule(), "Deposit") })
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(schedule()))

	bad := schedule()
	bad[1].AmountPaid = 2001
	assert.Error(t, Validate(bad))

	bad = schedule()
	bad[0].Status = "UNKNOWN"
	assert.Error(t, Validate(bad))
}

// TestAllocateInvariants прогоняет случайные графики и платежи
func TestAllocateInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := 1 + rnd.Intn(6)
		insts := make([]models.Installment, n)
		for i := range insts {
			due := models.Money(1 + rnd.Intn(5000))
			paid := models.Money(rnd.Intn(int(due) + 1))
			inst := models.Installment{
				ID:         uint(i + 1),
				Sequence:   rnd.Intn(3),
				DueDate:    jan10.AddDate(0, 0, rnd.Intn(4)*15),
				AmountDue:  due,
				AmountPaid: paid,
				Status:     models.InstallmentStatusDue,
			}
			inst.Status = DeriveStatus(inst)
			insts[i] = inst
		}
		before := append([]models.Installment(nil), insts...)
		payment := models.Money(1 + rnd.Intn(8000))

		applied, remaining := Allocate(insts, payment)

		var total models.Money
		for _, a := range applied {
			total += a.Amount
		}
		assert.Equal(t, payment, total+remaining)
		assert.GreaterOrEqual(t, remaining, models.Money(0))
		assert.Equal(t, TotalPaid(before)+total, TotalPaid(insts))

		for i := range insts {
			assert.GreaterOrEqual(t, insts[i].AmountPaid, before[i].AmountPaid)
			assert.LessOrEqual(t, insts[i].AmountPaid, insts[i].AmountDue)
			if before[i].Status == models.InstallmentStatusPaid {
				assert.Equal(t, before[i], insts[i])
			}
		}

		// строка позже в порядке получает деньги только если все более ранние закрыты
		order := Ordered(insts)
		for pos, i := range order {
			if insts[i].AmountPaid == before[i].AmountPaid {
				continue
			}
			for _, j := range order[:pos] {
				assert.Equal(t, insts[j].AmountDue, insts[j].AmountPaid)
			}
		}
	}
}
