package services

import (
	"context"
	"strings"
	"testing"

	"constructionProject/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementXML = `<?xml version="1.0" encoding="UTF-8"?>
<Statement>
  <Entry>
    <Amount>6.00</Amount>
    <Date>2026-10-01</Date>
    <Reference>PP-118</Reference>
    <Method>bank transfer</Method>
    <Kind>deposit</Kind>
  </Entry>
  <Entry>
    <Amount>0.00</Amount>
    <Date>2026-10-02</Date>
    <Reference>PP-119</Reference>
  </Entry>
  <Entry>
    <Amount> 4.00 </Amount>
    <Date>2026-10-03</Date>
    <Reference>PP-120</Reference>
    <Description>остаток задатка</Description>
  </Entry>
</Statement>`

func TestParseStatement(t *testing.T) {
	entries, err := ParseStatement(strings.NewReader(statementXML))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, models.PaymentKindDeposit, entries[0].Kind)
	assert.Equal(t, "6", entries[0].Amount.String())
	assert.Equal(t, day(2026, 10, 1), entries[0].ReceivedDate)
	assert.Equal(t, "PP-118", entries[0].Reference)
	assert.Equal(t, "bank transfer", entries[0].Method)

	assert.Equal(t, models.PaymentKindInstallment, entries[2].Kind)
	assert.Equal(t, "остаток задатка", entries[2].Description)
}

func TestParseStatementRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"не XML", "amount;date\n10;2026-10-01"},
		{"нет Statement", "<Payments></Payments>"},
		{"неверная сумма", "<Statement><Entry><Amount>десять</Amount><Date>2026-10-01</Date></Entry></Statement>"},
		{"неверная дата", "<Statement><Entry><Amount>10</Amount><Date>01.10.2026</Date></Entry></Statement>"},
		{"неизвестный вид", "<Statement><Entry><Amount>10</Amount><Date>2026-10-01</Date><Kind>REFUND</Kind></Entry></Statement>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatement(strings.NewReader(tt.body))
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestImportStatement(t *testing.T) {
	e := newTestEngine(t)
	projectID := seedProject(t, e.db, models.ProjectStatusDepositPending, depositAndSecond()...)
	importer := NewStatementImportService(e.payments)

	result, err := importer.Import(context.Background(), projectID, 1, strings.NewReader(statementXML))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Recorded)
	assert.Equal(t, 1, result.Rejected)
	require.Len(t, result.Entries, 3)
	assert.True(t, result.Entries[0].Recorded)
	assert.False(t, result.Entries[1].Recorded)
	assert.Equal(t, 2, result.Entries[1].Line)
	assert.Equal(t, ErrInvalidAmount.Error(), result.Entries[1].Error)
	assert.Equal(t, "4.00", result.Entries[2].Amount)

	insts := loadInstallments(t, e.db, projectID)
	assert.Equal(t, models.InstallmentStatusPaid, insts[0].Status)
	assert.Equal(t, models.ProjectStatusPlanned, loadProject(t, e.db, projectID).Status)
	assert.Equal(t, int64(2), countRows(t, e.db, &models.Payment{}))
}

func TestImportStatementMalformedRecordsNothing(t *testing.T) {
	e := newTestEngine(t)
	projectID := seedProject(t, e.db, models.ProjectStatusDepositPending, depositAndSecond()...)

	body := statementXML[:strings.Index(statementXML, "<Entry>\n    <Amount>0.00")] +
		"<Entry><Amount>1</Amount><Date>вчера</Date></Entry></Statement>"
	_, err := NewStatementImportService(e.payments).Import(context.Background(), projectID, 1, strings.NewReader(body))

	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, countRows(t, e.db, &models.Payment{}))
}
