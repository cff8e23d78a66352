package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// registrationsTotal counts sign-ups by result
	registrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_registrations_total",
		Help: "Total registrations by result",
	}, []string{"result"})

	// bookingsTotal counts booking attempts by result
	bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_bookings_total",
		Help: "Total slot booking attempts by result",
	}, []string{"result"})

	// socialActionsTotal counts feed writes by action
	socialActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_social_actions_total",
		Help: "Total feed writes by action",
	}, []string{"action"})

	// feedPageSize tracks how many posts a feed page returns
	feedPageSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "campus_feed_page_posts",
		Help:    "Number of posts returned per feed page",
		Buckets: []float64{0, 1, 5, 10, 11, 20, 50},
	})
)
