package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(bookingCreated.WithLabelValues("applied"))
	IncBookingCreated(true)
	assert.Equal(t, before+1, testutil.ToFloat64(bookingCreated.WithLabelValues("applied")))

	beforeRejected := testutil.ToFloat64(bookingRejected.WithLabelValues("conflict"))
	IncBookingRejected("conflict")
	assert.Equal(t, beforeRejected+1, testutil.ToFloat64(bookingRejected.WithLabelValues("conflict")))

	beforePurchased := testutil.ToFloat64(productPurchased.WithLabelValues("none"))
	IncProductPurchased(false)
	assert.Equal(t, beforePurchased+1, testutil.ToFloat64(productPurchased.WithLabelValues("none")))
}
