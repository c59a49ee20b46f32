package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	LoansCreatedTotal      *prometheus.CounterVec
	PaymentsTotal          *prometheus.CounterVec
	InstallmentsPaidTotal  *prometheus.CounterVec
	PaymentAdjustmentTotal *prometheus.CounterVec
	OverdueInstallments    prometheus.Gauge
	OverdueAmount          prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		LoansCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_loans_created_total",
				Help: "Total number of loan creation attempts by outcome.",
			},
			[]string{"status"},
		),
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_payments_total",
				Help: "Total number of payment requests by outcome.",
			},
			[]string{"status"},
		),
		InstallmentsPaidTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_installments_paid_total",
				Help: "Total number of installments settled, by pricing kind.",
			},
			[]string{"kind"},
		),
		PaymentAdjustmentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_payment_adjustment_amount_total",
				Help: "Sum of early payment discounts and late payment penalties.",
			},
			[]string{"kind"},
		),
		OverdueInstallments: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "credit_engine_overdue_installments",
				Help: "Unpaid installments past their due date at the last overdue report.",
			},
		),
		OverdueAmount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "credit_engine_overdue_amount",
				Help: "Face amount of unpaid installments past their due date at the last overdue report.",
			},
		),
	}
)

const (
	KindReward  = "reward"
	KindPenalty = "penalty"
	KindOnTime  = "on_time"
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordLoanCreated(status string) {
	Business.LoansCreatedTotal.WithLabelValues(status).Inc()
}

func RecordPayment(status string) {
	Business.PaymentsTotal.WithLabelValues(status).Inc()
}

// RecordInstallmentPaid counts one settled installment and the absolute size of its adjustment.
func RecordInstallmentPaid(kind string, adjustment decimal.Decimal) {
	Business.InstallmentsPaidTotal.WithLabelValues(kind).Inc()
	if kind != KindOnTime {
		f, _ := adjustment.Abs().Float64()
		Business.PaymentAdjustmentTotal.WithLabelValues(kind).Add(f)
	}
}

func SetOverdue(count int, amount decimal.Decimal) {
	Business.OverdueInstallments.Set(float64(count))
	f, _ := amount.Float64()
	Business.OverdueAmount.Set(f)
}
