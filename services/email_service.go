package services

import (
	"constructionProject/config"
	"constructionProject/models"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Notifier получает события движка расчетов после фиксации транзакции
type Notifier interface {
	ProjectPlanned(project models.Project) error
}

// NoopNotifier ничего не отправляет
type NoopNotifier struct{}

// ProjectPlanned ничего не делает
func (NoopNotifier) ProjectPlanned(models.Project) error {
	return nil
}

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
	}
}

// NewNotifier возвращает EmailService, если SMTP включен, иначе NoopNotifier
func NewNotifier(cfg *config.Config) Notifier {
	if !cfg.SMTP.Enabled {
		return NoopNotifier{}
	}
	return NewEmailService(cfg)
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// ProjectPlanned уведомляет менеджера проекта о том, что задаток оплачен
func (s *EmailService) ProjectPlanned(project models.Project) error {
	if project.ManagerEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Проект «%s»: задаток оплачен", project.Name)
	body := fmt.Sprintf(`
		<h2>Задаток по проекту оплачен</h2>
		<p>Проект: %s (#%d)</p>
		<p>Новый статус: %s</p>
		<p>Дата: %s</p>
	`, project.Name, project.ID, project.Status, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(project.ManagerEmail, subject, body)
}
