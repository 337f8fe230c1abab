package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"constructionProject/models"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// StatementEntry представляет одну строку банковской выписки
type StatementEntry struct {
	Kind         models.PaymentKind
	Amount       decimal.Decimal
	ReceivedDate time.Time
	Reference    string
	Method       string
	Description  string
}

// ImportEntryResult результат регистрации одной строки выписки
type ImportEntryResult struct {
	Line      int    `json:"line"`
	Reference string `json:"reference,omitempty"`
	Amount    string `json:"amount"`
	Recorded  bool   `json:"recorded"`
	Error     string `json:"error,omitempty"`
}

// ImportResult результат импорта выписки
type ImportResult struct {
	Recorded int                 `json:"recorded"`
	Rejected int                 `json:"rejected"`
	Entries  []ImportEntryResult `json:"entries"`
}

// ParseStatement разбирает XML-выписку вида
//
//	<Statement>
//	  <Entry>
//	    <Amount>1250.00</Amount>
//	    <Date>2026-10-01</Date>
//	    <Reference>PP-118</Reference>
//	    <Method>bank transfer</Method>
//	    <Description>аванс по договору</Description>
//	    <Kind>DEPOSIT</Kind>
//	  </Entry>
//	</Statement>
//
// Kind необязателен, по умолчанию INSTALLMENT. Любая ошибка формата отклоняет всю выписку.
func ParseStatement(r io.Reader) ([]StatementEntry, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: не удалось прочитать выписку: %v", ErrInvalidRequest, err)
	}

	root := doc.SelectElement("Statement")
	if root == nil {
		return nil, fmt.Errorf("%w: в выписке нет элемента Statement", ErrInvalidRequest)
	}

	elements := root.SelectElements("Entry")
	entries := make([]StatementEntry, 0, len(elements))
	for n, el := range elements {
		line := n + 1

		amount, err := decimal.NewFromString(childText(el, "Amount"))
		if err != nil {
			return nil, fmt.Errorf("%w: строка %d: неверная сумма", ErrInvalidRequest, line)
		}

		date, err := time.Parse(time.DateOnly, childText(el, "Date"))
		if err != nil {
			return nil, fmt.Errorf("%w: строка %d: неверная дата", ErrInvalidRequest, line)
		}

		kind := models.PaymentKind(strings.ToUpper(childText(el, "Kind")))
		switch kind {
		case "":
			kind = models.PaymentKindInstallment
		case models.PaymentKindDeposit, models.PaymentKindInstallment, models.PaymentKindAdjustment:
		default:
			return nil, fmt.Errorf("%w: строка %d: неизвестный вид платежа %q", ErrInvalidRequest, line, kind)
		}

		entries = append(entries, StatementEntry{
			Kind:         kind,
			Amount:       amount,
			ReceivedDate: date,
			Reference:    childText(el, "Reference"),
			Method:       childText(el, "Method"),
			Description:  childText(el, "Description"),
		})
	}

	return entries, nil
}

// childText возвращает текст дочернего элемента без пробелов по краям
func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// StatementImportService регистрирует платежи из банковской выписки
type StatementImportService struct {
	payments *PaymentService
}

// NewStatementImportService создает новый экземпляр StatementImportService
func NewStatementImportService(payments *PaymentService) *StatementImportService {
	return &StatementImportService{payments: payments}
}

// Import регистрирует каждую строку выписки отдельным платежом.
// Строки обрабатываются по порядку, каждая своей транзакцией; отклоненная строка
// не отменяет уже зарегистрированные.
func (s *StatementImportService) Import(ctx context.Context, projectID, actorID uint, r io.Reader) (*ImportResult, error) {
	entries, err := ParseStatement(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Entries: make([]ImportEntryResult, 0, len(entries))}
	for n, entry := range entries {
		err := s.payments.RecordPayment(ctx, RecordPaymentRequest{
			ProjectID:    projectID,
			Kind:         entry.Kind,
			Amount:       entry.Amount,
			ReceivedDate: entry.ReceivedDate,
			Reference:    entry.Reference,
			Method:       entry.Method,
			Description:  entry.Description,
			ActorID:      actorID,
		})

		item := ImportEntryResult{
			Line:      n + 1,
			Reference: entry.Reference,
			Amount:    entry.Amount.StringFixed(2),
			Recorded:  err == nil,
		}
		if err != nil {
			item.Error = err.Error()
			result.Rejected++
		} else {
			result.Recorded++
		}
		result.Entries = append(result.Entries, item)
	}

	return result, nil
}
