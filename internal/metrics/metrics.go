package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// チェックアウトとwebhook周りのカウンタ。
type ShopMetrics struct {
	Checkouts     *prometheus.CounterVec
	WebhookEvents *prometheus.CounterVec
	Oversold      prometheus.Counter
}

func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts.",
	}, []string{"result"})

	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "webhook_events_total",
		Help:      "Total number of payment webhook events by outcome.",
	}, []string{"outcome"})

	oversold := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Name:      "oversold_orders_total",
		Help:      "Orders that became unfulfillable because the stock decrement lost a race.",
	})

	reg.MustRegister(checkouts, webhookEvents, oversold)

	return &ShopMetrics{
		Checkouts:     checkouts,
		WebhookEvents: webhookEvents,
		Oversold:      oversold,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
