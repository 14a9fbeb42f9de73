package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CoinMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coin_mutations_total",
			Help: "Coin balance mutations by transaction type and result",
		},
		[]string{"type", "result"},
	)
	GateDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_gate_denied_total",
			Help: "Tool gate denials by tool",
		},
		[]string{"tool"},
	)
	GateFailOpen = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_gate_fail_open_total",
			Help: "Tools allowed for free because no cost entry exists",
		},
		[]string{"tool"},
	)
)

func init() {
	prometheus.MustRegister(CoinMutations, GateDenied, GateFailOpen)
}
