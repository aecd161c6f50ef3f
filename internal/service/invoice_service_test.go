package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
	"faktura/internal/port"
	"faktura/internal/service"
	"faktura/mocks"
)

func newInvoiceService() (service.InvoiceService, *mocks.MockInvoiceRepo, *mocks.MockClientRepo, *mocks.MockPaymentRepo) {
	invoiceRepo := new(mocks.MockInvoiceRepo)
	clientRepo := new(mocks.MockClientRepo)
	paymentRepo := new(mocks.MockPaymentRepo)
	svc := service.NewInvoiceService(invoiceRepo, clientRepo, paymentRepo)
	return svc, invoiceRepo, clientRepo, paymentRepo
}

func TestInvoiceService_Create_FirstInvoiceOfMonth(t *testing.T) {
	svc, invoiceRepo, clientRepo, _ := newInvoiceService()

	clientRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Client{ID: 1, Name: "Bauceram GmbH"}, nil)
	invoiceRepo.On("NextFileNumber", mock.Anything).Return(int64(39), nil)
	invoiceRepo.On("MaxMonthSequence", mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	invoice, err := svc.Create(context.Background(), service.CreateInvoiceInput{
		ClientID:    1,
		Description: "Tiling work",
		Amount:      decimal.NewFromInt(2500),
	})
	assert.NoError(t, err)

	now := time.Now()
	assert.Equal(t, service.FormatInvoiceNumber(1, now.Month(), now.Year()), invoice.InvoiceNumber)
	assert.Equal(t, int64(39), invoice.FileNumber)
	assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_ContinuesMonthSequence(t *testing.T) {
	svc, invoiceRepo, clientRepo, _ := newInvoiceService()

	clientRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Client{ID: 1}, nil)
	invoiceRepo.On("NextFileNumber", mock.Anything).Return(int64(40), nil)
	invoiceRepo.On("MaxMonthSequence", mock.Anything, mock.Anything, mock.Anything).Return(4, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	invoice, err := svc.Create(context.Background(), service.CreateInvoiceInput{
		ClientID: 1,
		Amount:   decimal.NewFromInt(100),
	})
	assert.NoError(t, err)

	now := time.Now()
	assert.Equal(t, service.FormatInvoiceNumber(5, now.Month(), now.Year()), invoice.InvoiceNumber)
}

func TestInvoiceService_Create_Defaults(t *testing.T) {
	svc, invoiceRepo, clientRepo, _ := newInvoiceService()

	clientRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Client{ID: 1}, nil)
	invoiceRepo.On("NextFileNumber", mock.Anything).Return(int64(1), nil)
	invoiceRepo.On("MaxMonthSequence", mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	invoice, err := svc.Create(context.Background(), service.CreateInvoiceInput{
		ClientID: 1,
		Amount:   decimal.NewFromInt(100),
	})
	assert.NoError(t, err)
	assert.Equal(t, "EUR", invoice.Currency)
	assert.Equal(t, invoice.IssueDate.AddDate(0, 0, 30), invoice.DueDate)
}

func TestInvoiceService_Create_ExplicitDates(t *testing.T) {
	svc, invoiceRepo, clientRepo, _ := newInvoiceService()

	clientRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Client{ID: 1}, nil)
	invoiceRepo.On("NextFileNumber", mock.Anything).Return(int64(1), nil)
	invoiceRepo.On("MaxMonthSequence", mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	issue := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	invoice, err := svc.Create(context.Background(), service.CreateInvoiceInput{
		ClientID:  1,
		Amount:    decimal.NewFromInt(100),
		Currency:  "CHF",
		IssueDate: &issue,
		DueDate:   &due,
	})
	assert.NoError(t, err)
	assert.Equal(t, issue, invoice.IssueDate)
	assert.Equal(t, due, invoice.DueDate)
	assert.Equal(t, "CHF", invoice.Currency)
}

func TestInvoiceService_Create_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, _ := newInvoiceService()

	_, err := svc.Create(context.Background(), service.CreateInvoiceInput{
		ClientID: 1,
		Amount:   decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestInvoiceService_Create_UnknownClient(t *testing.T) {
	svc, _, clientRepo, _ := newInvoiceService()

	clientRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrClientNotFound)

	_, err := svc.Create(context.Background(), service.CreateInvoiceInput{
		ClientID: 99,
		Amount:   decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestInvoiceService_GetWithLedger_PartiallyPaid(t *testing.T) {
	svc, invoiceRepo, _, paymentRepo := newInvoiceService()

	invoiceRepo.On("GetByID", mock.Anything, int64(7)).Return(&domain.Invoice{
		ID:     7,
		Amount: decimal.NewFromInt(1000),
	}, nil)
	paymentRepo.On("SumByInvoice", mock.Anything, int64(7)).Return(decimal.NewFromInt(400), nil)

	got, err := svc.GetWithLedger(context.Background(), 7)
	assert.NoError(t, err)
	assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(400)))
	assert.True(t, got.AmountDue.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, domain.PaymentStatusPartial, got.PaymentStatus)
}

func TestInvoiceService_Update_EmptyUpdate(t *testing.T) {
	svc, _, _, _ := newInvoiceService()

	_, err := svc.Update(context.Background(), 1, port.InvoiceUpdate{})
	assert.True(t, domain.IsMissingFields(err))
}

func TestInvoiceService_Update_InvalidStatus(t *testing.T) {
	svc, _, _, _ := newInvoiceService()

	bad := domain.InvoiceStatus("archived")
	_, err := svc.Update(context.Background(), 1, port.InvoiceUpdate{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestInvoiceService_Update_AppliesFields(t *testing.T) {
	svc, invoiceRepo, _, _ := newInvoiceService()

	amount := decimal.NewFromInt(1500)
	update := port.InvoiceUpdate{Amount: &amount}
	invoiceRepo.On("Update", mock.Anything, int64(3), update).Return(nil)
	invoiceRepo.On("GetByID", mock.Anything, int64(3)).Return(&domain.Invoice{ID: 3, Amount: amount}, nil)

	got, err := svc.Update(context.Background(), 3, update)
	assert.NoError(t, err)
	assert.True(t, got.Amount.Equal(amount))
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_MarkPaid(t *testing.T) {
	svc, invoiceRepo, _, _ := newInvoiceService()

	invoiceRepo.On("UpdateStatus", mock.Anything, int64(5), domain.InvoiceStatusPaid, mock.Anything).Return(nil)

	assert.NoError(t, svc.MarkPaid(context.Background(), 5))
	invoiceRepo.AssertExpectations(t)
}
