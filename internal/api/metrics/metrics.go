// Package metrics defines and registers all custom Prometheus metrics for the
// Super Internet portal API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package initialisation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// RegistrationsTotal counts successful client registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of client accounts registered.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PaymentsTotal counts payments applied through the billing engine.
// Label:
//   - recurring: "true" when the payment marked the account recurring
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payments applied, by recurring flag.",
	},
	[]string{"recurring"},
)

// BillingCyclesTotal counts completed billing sweeps.
var BillingCyclesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_cycles_total",
		Help:      "Total number of completed billing sweeps.",
	},
)

// BillingChargesTotal counts monthly charges applied by the sweep.
// Label:
//   - service_type: "internet" or "internet_tv"
var BillingChargesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_charges_total",
		Help:      "Total number of monthly charges applied to clients, by service type.",
	},
	[]string{"service_type"},
)

// ClientsInDebt tracks the number of contracted clients with a negative
// balance, as observed by the latest sweep.
var ClientsInDebt = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "clients_in_debt",
		Help:      "Contracted, approved clients with a negative balance.",
	},
)

// MessagesSentTotal counts support-thread messages.
// Label:
//   - from_role: "client" or "support"
var MessagesSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of messages appended to support threads, by sender role.",
	},
	[]string{"from_role"},
)
