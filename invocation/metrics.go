package invocation

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

// Metrics counts invocations by command and exit code and observes their
// duration.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics registers the invocation metrics on reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cmdline_invocations_total",
			Help: "Total number of command invocations by command and exit code",
		}, []string{"command", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cmdline_invocation_duration_seconds",
			Help:    "Time spent running a command",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"command"}),
	}
}

// Middleware records every invocation passing through it.
func (m *Metrics) Middleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			start := time.Now()
			err := next(ic)

			command := commandName(ic)
			code := ic.ExitCode
			if err != nil {
				code = exitCodesOf(ic).Resolve(err)
			}
			m.duration.WithLabelValues(command).Observe(time.Since(start).Seconds())
			m.invocations.WithLabelValues(command, strconv.Itoa(code)).Inc()
			return err
		}
	}
}
