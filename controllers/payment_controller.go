package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"constructionProject/middleware"
	"constructionProject/models"
	"constructionProject/services"

	"github.com/shopspring/decimal"
)

const (
	// maxStatementSize ограничение размера загружаемой выписки
	maxStatementSize = 5 << 20
	maxRequestSize   = 1 << 20
)

// PaymentController обрабатывает регистрацию платежей
type PaymentController struct {
	payments *services.PaymentService
	importer *services.StatementImportService
	projects *services.ProjectService
}

// RecordPaymentDTO тело запроса на регистрацию платежа
type RecordPaymentDTO struct {
	Kind         models.PaymentKind `json:"kind"`
	Amount       decimal.Decimal    `json:"amount"`
	ReceivedDate string             `json:"received_date"` // YYYY-MM-DD
	Reference    string             `json:"reference"`
	Method       string             `json:"method"`
	Description  string             `json:"description"`
}

// NewPaymentController создает новый экземпляр PaymentController
func NewPaymentController(payments *services.PaymentService, importer *services.StatementImportService, projects *services.ProjectService) *PaymentController {
	return &PaymentController{
		payments: payments,
		importer: importer,
		projects: projects,
	}
}

// RecordPayment регистрирует платеж заказчика по проекту
func (c *PaymentController) RecordPayment(w http.ResponseWriter, r *http.Request) {
	userID, _, err := middleware.GetUserFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := projectID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var dto RecordPaymentDTO
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&dto); err != nil {
		writeError(w, fmt.Errorf("%w: неверное тело запроса", services.ErrInvalidRequest))
		return
	}

	received, err := time.Parse(time.DateOnly, dto.ReceivedDate)
	if err != nil {
		writeError(w, fmt.Errorf("%w: received_date должна быть в формате YYYY-MM-DD", services.ErrInvalidRequest))
		return
	}

	if dto.Kind == "" {
		dto.Kind = models.PaymentKindInstallment
	}

	err = c.payments.RecordPayment(r.Context(), services.RecordPaymentRequest{
		ProjectID:    id,
		Kind:         dto.Kind,
		Amount:       dto.Amount,
		ReceivedDate: received,
		Reference:    dto.Reference,
		Method:       dto.Method,
		Description:  dto.Description,
		ActorID:      userID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// Возвращаем актуальный график
	project, err := c.projects.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// ImportStatement регистрирует платежи из XML-выписки банка
func (c *PaymentController) ImportStatement(w http.ResponseWriter, r *http.Request) {
	userID, _, err := middleware.GetUserFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := projectID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := c.importer.Import(r.Context(), id, userID, http.MaxBytesReader(w, r.Body, maxStatementSize))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListPayments возвращает платежи проекта с распределением по строкам графика
func (c *PaymentController) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	payments, err := c.projects.ListPayments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
