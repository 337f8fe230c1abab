package services

import (
	"context"
	"time"

	"constructionProject/utils"

	"github.com/robfig/cron/v3"
)

// PaymentSchedulerService запускает общесистемную проверку просрочек по расписанию
type PaymentSchedulerService struct {
	cron     *cron.Cron
	overdue  *OverdueService
	schedule string
	timeout  time.Duration
}

// NewPaymentSchedulerService создает новый экземпляр PaymentSchedulerService.
// schedule задается в стандартном формате cron, например "15 0 * * *".
func NewPaymentSchedulerService(overdue *OverdueService, schedule string) *PaymentSchedulerService {
	return &PaymentSchedulerService{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		overdue:  overdue,
		schedule: schedule,
		timeout:  30 * time.Minute,
	}
}

// Start регистрирует задачу и запускает планировщик
func (s *PaymentSchedulerService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.processOverduePayments); err != nil {
		return err
	}
	s.cron.Start()
	utils.LogInfo("Планировщик проверки просрочек запущен: %s", s.schedule)
	return nil
}

// Stop останавливает планировщик и ждет завершения текущей задачи
func (s *PaymentSchedulerService) Stop() {
	<-s.cron.Stop().Done()
}

// processOverduePayments помечает просроченные строки по всем проектам
func (s *PaymentSchedulerService) processOverduePayments() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.overdue.SweepAll(ctx); err != nil {
		utils.LogError("Ошибка при обработке просроченных платежей: %v", err)
	}
}
