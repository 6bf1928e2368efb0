package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registerCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgsvc",
		Subsystem: "auth",
		Name:      "register_total",
		Help:      "The total number of registration attempts",
	}, []string{"result"})

	loginCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgsvc",
		Subsystem: "auth",
		Name:      "login_total",
		Help:      "The total number of login attempts",
	}, []string{"result"})

	membershipCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgsvc",
		Subsystem: "membership",
		Name:      "changes_total",
		Help:      "The total number of organisation and membership writes",
	}, []string{"op"})
)
