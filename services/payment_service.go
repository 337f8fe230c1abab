package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"constructionProject/ledger"
	"constructionProject/models"
	"constructionProject/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecordPaymentRequest представляет данные поступления от заказчика
type RecordPaymentRequest struct {
	ProjectID    uint               `json:"-" validate:"required"`
	Kind         models.PaymentKind `json:"kind" validate:"required,oneof=DEPOSIT INSTALLMENT ADJUSTMENT"`
	Amount       decimal.Decimal    `json:"amount"` // в основных единицах
	ReceivedDate time.Time          `json:"-"`
	Reference    string             `json:"reference" validate:"max=100"`
	Method       string             `json:"method" validate:"max=50"`
	Description  string             `json:"description" validate:"max=255"`
	ActorID      uint               `json:"-" validate:"required"`
}

// OverpaymentPolicy решает судьбу остатка платежа после погашения всех строк графика.
// Вызывается внутри транзакции регистрации платежа.
type OverpaymentPolicy func(tx *gorm.DB, payment *models.Payment, leftover models.Money) error

// AbsorbOverpayment оставляет переплату без учета: запись о ней попадает только в лог и метрики
func AbsorbOverpayment(tx *gorm.DB, payment *models.Payment, leftover models.Money) error {
	utils.LogInfo("переплата %s по платежу %s проекта %d не распределена", leftover, payment.UID, payment.ProjectID)
	return nil
}

// recordOutcome итог одной регистрации платежа
type recordOutcome struct {
	project   models.Project
	payment   models.Payment
	allocated models.Money
	absorbed  models.Money
	flips     int
	gateFired bool
}

// PaymentService регистрирует платежи и распределяет их по графику проекта
type PaymentService struct {
	db           *gorm.DB
	validator    *validator.Validate
	clock        utils.Clock
	locks        *utils.KeyedMutex
	notifier     Notifier
	metrics      *utils.Metrics
	depositLabel string
	overpayment  OverpaymentPolicy
}

// NewPaymentService создает новый экземпляр PaymentService.
// locks должен быть общим с OverdueService, чтобы операции над одним проектом шли по очереди.
func NewPaymentService(db *gorm.DB, notifier Notifier, clock utils.Clock, locks *utils.KeyedMutex, depositLabel string) *PaymentService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	metrics := utils.GetMetrics()
	metrics.RegisterErrorKinds(ErrorKinds...)

	return &PaymentService{
		db:           db,
		validator:    validator.New(),
		clock:        clock,
		locks:        locks,
		notifier:     notifier,
		metrics:      metrics,
		depositLabel: depositLabel,
		overpayment:  AbsorbOverpayment,
	}
}

// SetOverpaymentPolicy заменяет обработку переплаты
func (s *PaymentService) SetOverpaymentPolicy(policy OverpaymentPolicy) {
	s.overpayment = policy
}

// RecordPayment сохраняет платеж, распределяет его по графику, помечает просрочки
// и переводит проект в PLANNED после оплаты задатка. Все изменения выполняются
// одной транзакцией: при любой ошибке не сохраняется ничего.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) error {
	start := time.Now()

	out, err := s.recordPayment(ctx, req)

	fields := logrus.Fields{"project_id": req.ProjectID, "kind": req.Kind, "actor_id": req.ActorID}
	if err != nil {
		if errors.Is(err, ErrConcurrencyConflict) {
			s.metrics.RecordConflict()
		}
		s.metrics.RecordPayment(0, 0, 0, false, err)
		utils.LogOperation("RecordPayment", start, err, fields)
		return err
	}

	fields["payment_uid"] = out.payment.UID
	fields["amount"] = out.payment.Amount.String()
	fields["allocated"] = out.allocated.String()
	s.metrics.RecordPayment(int64(out.allocated), int64(out.absorbed), out.flips, out.gateFired, nil)
	utils.LogOperation("RecordPayment", start, nil, fields)

	if out.gateFired {
		// Уведомление не входит в транзакцию и не влияет на результат
		if err := s.notifier.ProjectPlanned(out.project); err != nil {
			utils.LogError("Ошибка при отправке уведомления по проекту %d: %v", out.project.ID, err)
		}
	}

	return nil
}

func (s *PaymentService) recordPayment(ctx context.Context, req RecordPaymentRequest) (*recordOutcome, error) {
	// Проверяем сумму до любых обращений к базе
	amount, err := models.MoneyFromDecimal(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Валидируем запрос
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}
	if req.ReceivedDate.IsZero() {
		return nil, invalidRequest(errors.New("поле ReceivedDate обязательно"))
	}

	unlock := s.locks.Lock(req.ProjectID)
	defer unlock()

	out := &recordOutcome{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Блокируем проект и загружаем график
		project, installments, err := lockSchedule(tx, req.ProjectID)
		if err != nil {
			return err
		}

		// Сохраняем платеж
		payment := models.Payment{
			UID:          uuid.NewString(),
			ProjectID:    project.ID,
			Kind:         req.Kind,
			Amount:       amount,
			ReceivedDate: req.ReceivedDate,
			Reference:    req.Reference,
			Method:       req.Method,
			Description:  req.Description,
			RecordedByID: req.ActorID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return persistenceError("сохранение платежа", err)
		}

		// Распределяем платеж по строкам графика
		before := snapshot(installments)
		applied, leftover := ledger.Allocate(installments, amount)
		for _, a := range applied {
			allocation := models.Allocation{
				PaymentID:     payment.ID,
				ProjectID:     project.ID,
				InstallmentID: installments[a.Index].ID,
				Amount:        a.Amount,
			}
			if err := tx.Create(&allocation).Error; err != nil {
				return persistenceError("сохранение распределения", err)
			}
			out.allocated += a.Amount
		}

		if leftover > 0 {
			if err := s.overpayment(tx, &payment, leftover); err != nil {
				return err
			}
			out.absorbed = leftover
		}

		// Помечаем просрочки по всему графику проекта
		out.flips = len(ledger.SweepOverdue(installments, s.clock.Now()))

		if err := saveChanged(tx, before, installments); err != nil {
			return err
		}

		// Проверяем задаток и при необходимости продвигаем проект.
		// Статус, неизвестный движку, не трогаем.
		status, fired := project.Status, false
		if project.Status.Valid() {
			status, fired = ledger.DepositGate(project.Status, installments, s.depositLabel)
		} else {
			utils.LogInfo("проект %d в неизвестном статусе %q, проверка задатка пропущена", project.ID, project.Status)
		}
		if err := bumpProject(tx, project, status); err != nil {
			return err
		}

		out.project = *project
		out.payment = payment
		out.gateFired = fired
		return nil
	})
	if err != nil {
		return nil, classify("регистрация платежа", err)
	}

	return out, nil
}
