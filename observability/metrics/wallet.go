package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type WalletMetrics struct {
	inputsProcessed  *prometheus.CounterVec
	depositsCredited *prometheus.CounterVec
	vouchersIssued   prometheus.Counter
	snapshotSaves    prometheus.Counter
	accountsTracked  prometheus.Gauge
}

var (
	walletOnce     sync.Once
	walletRegistry *WalletMetrics
)

func Wallet() *WalletMetrics {
	walletOnce.Do(func() {
		walletRegistry = &WalletMetrics{
			inputsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wallet_inputs_processed_total",
				Help: "Count of advance inputs processed by verdict.",
			}, []string{"status"}),
			depositsCredited: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wallet_deposits_credited_total",
				Help: "Count of accepted deposits by asset class.",
			}, []string{"asset"}),
			vouchersIssued: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "wallet_vouchers_issued_total",
				Help: "Count of withdrawal vouchers handed to the rollup node.",
			}),
			snapshotSaves: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "wallet_snapshot_saves_total",
				Help: "Count of ledger snapshots persisted to disk.",
			}),
			accountsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "wallet_accounts_tracked",
				Help: "Number of accounts currently present in the ledger.",
			}),
		}
		prometheus.MustRegister(
			walletRegistry.inputsProcessed,
			walletRegistry.depositsCredited,
			walletRegistry.vouchersIssued,
			walletRegistry.snapshotSaves,
			walletRegistry.accountsTracked,
		)
	})
	return walletRegistry
}

func (m *WalletMetrics) ObserveInput(status string) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.inputsProcessed.WithLabelValues(status).Inc()
}

func (m *WalletMetrics) ObserveDeposit(asset string) {
	if m == nil {
		return
	}
	if asset == "" {
		asset = "unknown"
	}
	m.depositsCredited.WithLabelValues(asset).Inc()
}

func (m *WalletMetrics) IncVouchersIssued() {
	if m == nil {
		return
	}
	m.vouchersIssued.Inc()
}

func (m *WalletMetrics) IncSnapshotSaves() {
	if m == nil {
		return
	}
	m.snapshotSaves.Inc()
}

func (m *WalletMetrics) SetAccountsTracked(count int) {
	if m == nil {
		return
	}
	m.accountsTracked.Set(float64(count))
}
