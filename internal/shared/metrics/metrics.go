package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venyuk",
			Name:      "booking_created_total",
			Help:      "Count of venue bookings created, by whether a promo was applied.",
		},
		[]string{"promo"},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venyuk",
			Name:      "booking_rejected_total",
			Help:      "Count of booking requests rejected, by reason.",
		},
		[]string{"reason"},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venyuk",
			Name:      "booking_transition_total",
			Help:      "Count of booking status transitions.",
		},
		[]string{"to"},
	)

	promoRedeemed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venyuk",
			Name:      "promo_redeemed_total",
			Help:      "Count of promo codes redeemed, by scope.",
		},
		[]string{"scope"},
	)

	productPurchased = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venyuk",
			Name:      "product_purchased_total",
			Help:      "Count of shop checkouts completed, by whether a promo was applied.",
		},
		[]string{"promo"},
	)

	productPurchaseRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venyuk",
			Name:      "product_purchase_rejected_total",
			Help:      "Count of shop checkouts rejected, by reason.",
		},
		[]string{"reason"},
	)

	matchJoined = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "venyuk",
			Name:      "match_joined_total",
			Help:      "Count of users joining match-up games.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingRejected, bookingTransition, promoRedeemed, productPurchased, productPurchaseRejected, matchJoined)
	})
}

func IncBookingCreated(promoApplied bool) {
	label := "none"
	if promoApplied {
		label = "applied"
	}
	bookingCreated.WithLabelValues(label).Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncBookingTransition(to string) {
	bookingTransition.WithLabelValues(to).Inc()
}

func IncPromoRedeemed(scope string) {
	promoRedeemed.WithLabelValues(scope).Inc()
}

func IncProductPurchased(promoApplied bool) {
	label := "none"
	if promoApplied {
		label = "applied"
	}
	productPurchased.WithLabelValues(label).Inc()
}

func IncProductPurchaseRejected(reason string) {
	productPurchaseRejected.WithLabelValues(reason).Inc()
}

func IncMatchJoined() {
	matchJoined.Inc()
}
