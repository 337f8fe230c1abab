package services

import (
	"context"
	"errors"
	"time"

	"constructionProject/ledger"
	"constructionProject/models"

	"gorm.io/gorm"
)

// InstallmentDTO представляет строку графика для ответа
type InstallmentDTO struct {
	ID          uint   `json:"id"`
	Sequence    int    `json:"sequence"`
	Label       string `json:"label"`
	DueDate     string `json:"due_date"`
	AmountDue   string `json:"amount_due"`
	AmountPaid  string `json:"amount_paid"`
	Outstanding string `json:"outstanding"`
	Status      string `json:"status"`
}

// ProjectResponseDTO представляет проект с графиком платежей
type ProjectResponseDTO struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	Status       string           `json:"status"`
	TotalDue     string           `json:"total_due"`
	TotalPaid    string           `json:"total_paid"`
	Installments []InstallmentDTO `json:"installments"`
}

// AllocationDTO представляет зачисление части платежа на строку графика
type AllocationDTO struct {
	InstallmentID uint   `json:"installment_id"`
	Amount        string `json:"amount"`
}

// PaymentDTO представляет платеж для ответа
type PaymentDTO struct {
	ID           uint            `json:"id"`
	UID          string          `json:"uid"`
	Kind         string          `json:"kind"`
	Amount       string          `json:"amount"`
	ReceivedDate string          `json:"received_date"`
	Reference    string          `json:"reference,omitempty"`
	Method       string          `json:"method,omitempty"`
	Description  string          `json:"description,omitempty"`
	RecordedByID uint            `json:"recorded_by_id"`
	Allocations  []AllocationDTO `json:"allocations"`
}

// ProjectService предоставляет методы чтения проектов и платежей
type ProjectService struct {
	db *gorm.DB
}

// NewProjectService создает новый экземпляр ProjectService
func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// GetProject возвращает проект с графиком в порядке погашения
func (s *ProjectService) GetProject(ctx context.Context, id uint) (*ProjectResponseDTO, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).
		Preload("Installments").
		First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, persistenceError("поиск проекта", err)
	}

	response := &ProjectResponseDTO{
		ID:           project.ID,
		Name:         project.Name,
		Status:       string(project.Status),
		Installments: make([]InstallmentDTO, 0, len(project.Installments)),
	}

	var totalDue models.Money
	for _, i := range ledger.Ordered(project.Installments) {
		inst := project.Installments[i]
		totalDue += inst.AmountDue
		response.Installments = append(response.Installments, toInstallmentDTO(inst))
	}
	response.TotalDue = totalDue.String()
	response.TotalPaid = ledger.TotalPaid(project.Installments).String()

	return response, nil
}

// ListPayments возвращает платежи проекта вместе с распределением
func (s *ProjectService) ListPayments(ctx context.Context, projectID uint) ([]PaymentDTO, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return nil, persistenceError("поиск проекта", err)
	}
	if count == 0 {
		return nil, ErrProjectNotFound
	}

	var payments []models.Payment
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("Allocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("allocations.id ASC")
		}).
		Order("received_date ASC, id ASC").
		Find(&payments).Error; err != nil {
		return nil, persistenceError("получение платежей", err)
	}

	result := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		result[i] = toPaymentDTO(p)
	}
	return result, nil
}

// toInstallmentDTO конвертирует модель Installment в DTO
func toInstallmentDTO(inst models.Installment) InstallmentDTO {
	return InstallmentDTO{
		ID:          inst.ID,
		Sequence:    inst.Sequence,
		Label:       inst.Label,
		DueDate:     inst.DueDate.Format(time.DateOnly),
		AmountDue:   inst.AmountDue.String(),
		AmountPaid:  inst.AmountPaid.String(),
		Outstanding: inst.Outstanding().String(),
		Status:      string(inst.Status),
	}
}

// toPaymentDTO конвертирует модель Payment в DTO
func toPaymentDTO(p models.Payment) PaymentDTO {
	allocations := make([]AllocationDTO, len(p.Allocations))
	for i, a := range p.Allocations {
		allocations[i] = AllocationDTO{
			InstallmentID: a.InstallmentID,
			Amount:        a.Amount.String(),
		}
	}

	return PaymentDTO{
		ID:           p.ID,
		UID:          p.UID,
		Kind:         string(p.Kind),
		Amount:       p.Amount.String(),
		ReceivedDate: p.ReceivedDate.Format(time.DateOnly),
		Reference:    p.Reference,
		Method:       p.Method,
		Description:  p.Description,
		RecordedByID: p.RecordedByID,
		Allocations:  allocations,
	}
}
