package monitoring

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordPayment(t *testing.T) {
	Business.PaymentsTotal.Reset()

	RecordPayment("success")
	RecordPayment("success")
	RecordPayment("failure_amount")

	expected := `
		# HELP credit_engine_payments_total Total number of payment requests by outcome.
		# TYPE credit_engine_payments_total counter
		credit_engine_payments_total{status="failure_amount"} 1
		credit_engine_payments_total{status="success"} 2
	`
	assert.NoError(t, testutil.CollectAndCompare(Business.PaymentsTotal, strings.NewReader(expected)))
}

func TestRecordInstallmentPaid(t *testing.T) {
	Business.InstallmentsPaidTotal.Reset()
	Business.PaymentAdjustmentTotal.Reset()

	RecordInstallmentPaid(KindReward, decimal.RequireFromString("-1.5"))
	RecordInstallmentPaid(KindReward, decimal.RequireFromString("-0.5"))
	RecordInstallmentPaid(KindOnTime, decimal.Zero)

	assert.Equal(t, float64(2), testutil.ToFloat64(Business.InstallmentsPaidTotal.WithLabelValues(KindReward)))
	assert.Equal(t, float64(1), testutil.ToFloat64(Business.InstallmentsPaidTotal.WithLabelValues(KindOnTime)))
	assert.Equal(t, float64(2), testutil.ToFloat64(Business.PaymentAdjustmentTotal.WithLabelValues(KindReward)))
	assert.Equal(t, 1, testutil.CollectAndCount(Business.PaymentAdjustmentTotal))
}

func TestSetOverdue(t *testing.T) {
	SetOverdue(3, decimal.RequireFromString("300.50"))

	assert.Equal(t, float64(3), testutil.ToFloat64(Business.OverdueInstallments))
	assert.Equal(t, 300.5, testutil.ToFloat64(Business.OverdueAmount))
}

func TestRecordLoanCreatedAndDBQuery(t *testing.T) {
	Business.LoansCreatedTotal.Reset()
	DB.QueryDuration.Reset()

	RecordLoanCreated("success")
	RecordDBQuery("GetLoanByID", "success", 10*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(Business.LoansCreatedTotal.WithLabelValues("success")))
	assert.Equal(t, 1, testutil.CollectAndCount(DB.QueryDuration))
}
