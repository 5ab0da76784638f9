package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/jdziat/netreq"
	"github.com/jdziat/netreq/pkg/config"
	"github.com/jdziat/netreq/pkg/metrics"
)

// session is a configured client plus what is needed to report on it.
type session struct {
	client   *netreq.Client
	registry *prometheus.Registry
}

func newSession(flags *globalFlags, stderr io.Writer) (*session, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	opts := []netreq.Option{netreq.WithConfig(cfg)}
	if flags.debug {
		opts = append(opts, netreq.WithDebug(true))
	}
	if flags.verbose || flags.debug || cfg.Debug {
		logger := logrus.New()
		logger.SetOutput(stderr)
		logger.SetLevel(logrus.InfoLevel)
		if flags.debug || cfg.Debug {
			logger.SetLevel(logrus.DebugLevel)
		}
		opts = append(opts, netreq.WithLogger(netreq.NewLogrusAdapter(logger)))
	}

	s := &session{}
	if flags.metrics {
		s.registry = prometheus.NewRegistry()
		namespace := cfg.MetricsNamespace
		if namespace == "" {
			namespace = config.DefaultMetricsNamespace
		}
		opts = append(opts, netreq.WithMetrics(metrics.NewPrometheus(namespace, s.registry)))
	}

	s.client, err = netreq.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create client")
	}
	return s, nil
}

// report prints every gathered counter and histogram sample count as
// "family{name} value" lines.
func (s *session) report(w io.Writer) error {
	if s.registry == nil {
		return nil
	}
	families, err := s.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			label := ""
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "name" {
					label = lp.GetValue()
				}
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), label, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(w, "%s{%s} count=%d sum=%g\n", mf.GetName(), label,
					m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			case m.GetGauge() != nil:
				fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), label, m.GetGauge().GetValue())
			}
		}
	}
	return nil
}

// parsePairs splits Key=Value arguments. The first '=' separates key from
// value; keys must be non-empty.
func parsePairs(kind string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.Errorf("invalid %s %q: want key=value", kind, p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
