package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the domain counters the handlers bump. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	Logins        *prometheus.CounterVec
	Registrations prometheus.Counter
	CartAdds      prometheus.Counter
	Checkouts     prometheus.Counter
	OrderRevenue  prometheus.Counter
	ContactMails  *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ministore_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"result"}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ministore_registrations_total",
			Help: "Self-registrations accepted for approval.",
		}),
		CartAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ministore_cart_adds_total",
			Help: "Products added to carts.",
		}),
		Checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ministore_checkouts_total",
			Help: "Completed checkouts.",
		}),
		OrderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ministore_order_revenue_won_total",
			Help: "Sum of completed order totals.",
		}),
		ContactMails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ministore_contact_messages_total",
			Help: "Contact messages by delivery mode.",
		}, []string{"mode"}),
	}
	if reg != nil {
		reg.MustRegister(m.Logins, m.Registrations, m.CartAdds, m.Checkouts, m.OrderRevenue, m.ContactMails)
	}
	return m
}

func (m *Metrics) login(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) registration() {
	if m == nil {
		return
	}
	m.Registrations.Inc()
}

func (m *Metrics) cartAdd() {
	if m == nil {
		return
	}
	m.CartAdds.Inc()
}

func (m *Metrics) checkout(total int) {
	if m == nil {
		return
	}
	m.Checkouts.Inc()
	m.OrderRevenue.Add(float64(total))
}

func (m *Metrics) contact(simulated bool) {
	if m == nil {
		return
	}
	mode := "sent"
	if simulated {
		mode = "simulated"
	}
	m.ContactMails.WithLabelValues(mode).Inc()
}
