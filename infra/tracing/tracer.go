package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jprom "github.com/uber/jaeger-lib/metrics/prometheus"
)

type jaegerLogger struct{}

func (jaegerLogger) Error(msg string) {
	logrus.WithField("component", "jaeger").Error(msg)
}

func (jaegerLogger) Infof(msg string, args ...interface{}) {
	logrus.WithField("component", "jaeger").Debugf(msg, args...)
}

// InitGlobalTracer builds a jaeger tracer from the JAEGER_* environment and
// installs it as the global tracer. Tracer metrics go to registerer when set.
// JAEGER_DISABLED=true yields a no-op tracer.
func InitGlobalTracer(serviceName string, registerer prometheus.Registerer) (io.Closer, error) {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}

	options := []jaegercfg.Option{jaegercfg.Logger(jaegerLogger{})}
	if registerer != nil {
		options = append(options, jaegercfg.Metrics(jprom.New(jprom.WithRegisterer(registerer))))
	}

	tracer, closer, err := cfg.NewTracer(options...)
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	logrus.WithFields(logrus.Fields{"service": cfg.ServiceName, "disabled": cfg.Disabled}).Info("tracer initialized")
	return closer, nil
}
