package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
	"faktura/internal/service"
	"faktura/mocks"
)

func newPaymentService() (service.PaymentService, *mocks.MockPaymentRepo, *mocks.MockInvoiceRepo) {
	paymentRepo := new(mocks.MockPaymentRepo)
	invoiceRepo := new(mocks.MockInvoiceRepo)
	svc := service.NewPaymentService(paymentRepo, invoiceRepo)
	return svc, paymentRepo, invoiceRepo
}

func TestPaymentService_Record_PartialPayment(t *testing.T) {
	svc, paymentRepo, invoiceRepo := newPaymentService()

	invoiceRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Invoice{
		ID:       1,
		Amount:   decimal.NewFromInt(1000),
		Currency: "EUR",
		Status:   domain.InvoiceStatusSent,
	}, nil)
	paymentRepo.On("SumByInvoice", mock.Anything, int64(1)).Return(decimal.Zero, nil)
	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	payment, err := svc.Record(context.Background(), service.RecordPaymentInput{
		InvoiceID: 1,
		Amount:    decimal.NewFromInt(400),
	})
	assert.NoError(t, err)
	assert.Equal(t, "EUR", payment.Currency)
	// Partial payment must not flip the invoice to paid.
	invoiceRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Record_ExactRemainderMarksPaid(t *testing.T) {
	svc, paymentRepo, invoiceRepo := newPaymentService()

	invoiceRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Invoice{
		ID:       1,
		Amount:   decimal.NewFromInt(1000),
		Currency: "EUR",
		Status:   domain.InvoiceStatusSent,
	}, nil)
	paymentRepo.On("SumByInvoice", mock.Anything, int64(1)).Return(decimal.NewFromInt(600), nil)
	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	invoiceRepo.On("UpdateStatus", mock.Anything, int64(1), domain.InvoiceStatusPaid, mock.Anything).Return(nil)

	_, err := svc.Record(context.Background(), service.RecordPaymentInput{
		InvoiceID: 1,
		Amount:    decimal.NewFromInt(400),
	})
	assert.NoError(t, err)
	invoiceRepo.AssertExpectations(t)
}

func TestPaymentService_Record_Overpayment(t *testing.T) {
	svc, paymentRepo, invoiceRepo := newPaymentService()

	invoiceRepo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Invoice{
		ID:     1,
		Amount: decimal.NewFromInt(1000),
	}, nil)
	paymentRepo.On("SumByInvoice", mock.Anything, int64(1)).Return(decimal.NewFromInt(600), nil)

	_, err := svc.Record(context.Background(), service.RecordPaymentInput{
		InvoiceID: 1,
		Amount:    decimal.NewFromFloat(400.01),
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_Record_NonPositiveAmount(t *testing.T) {
	svc, _, _ := newPaymentService()

	_, err := svc.Record(context.Background(), service.RecordPaymentInput{
		InvoiceID: 1,
		Amount:    decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestPaymentService_Record_InvoiceNotFound(t *testing.T) {
	svc, _, invoiceRepo := newPaymentService()

	invoiceRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrInvoiceNotFound)

	_, err := svc.Record(context.Background(), service.RecordPaymentInput{
		InvoiceID: 99,
		Amount:    decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestPaymentService_Delete(t *testing.T) {
	svc, paymentRepo, _ := newPaymentService()

	paymentRepo.On("Delete", mock.Anything, int64(2)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), 2))
	paymentRepo.AssertExpectations(t)
}
