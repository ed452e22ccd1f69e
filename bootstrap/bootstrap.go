package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/fulldump/docrest/api"
	"github.com/fulldump/docrest/configuration"
	"github.com/fulldump/docrest/registry"
)

var VERSION = "dev"

// NewLogger builds the production logger at the configured level.
func NewLogger(level string) (*zap.Logger, error) {

	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	config := zap.NewProductionConfig()
	config.Level = atomicLevel

	return config.Build()
}

func Bootstrap(c *configuration.Configuration) (start, stop func(), err error) {

	logger, err := NewLogger(c.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)

	r := registry.New(&registry.Config{
		Dir:      c.Dir,
		MaxLimit: c.MaxLimit,
	})

	b := api.Build(r, VERSION, c.EnableMetrics)
	b.WithInterceptors(
		api.AccessLog(logger.Named("access")),
	)
	if c.EnableMetrics {
		b.WithInterceptors(api.Metrics)
	}
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: api.Handler(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen: %w", err)
	}
	logger.Info("listening", zap.String("addr", c.HttpAddr))

	stopOnce := &sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			err := s.Shutdown(context.Background())
			if err != nil {
				logger.Error("shutdown http server", zap.Error(err))
			}
			err = r.Stop()
			if err != nil {
				logger.Error("stop registry", zap.Error(err))
			}
			logger.Sync()
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		logger.Info("signal received", zap.String("signal", sig.String()))
		stop()
	}()

	start = func() {

		err := r.Start()
		if err != nil {
			logger.Error("start registry", zap.Error(err))
			ln.Close()
			return
		}

		err = s.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			logger.Error("serve", zap.Error(err))
		}
	}

	return
}
