package cmd

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/foomo/keel"
	"github.com/foomo/keel/healthz"
	"github.com/foomo/keel/net/http/middleware"
	"github.com/foomo/keel/service"
	"github.com/foomo/otaserver/pkg/handler"
	"github.com/foomo/otaserver/pkg/source"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type serverConfig struct {
	Location        string
	ServePath       string
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

func newServerConfig(v *viper.Viper, location string) serverConfig {
	return serverConfig{
		Location:        location,
		ServePath:       "/" + httpFilenameFlag(v),
		Host:            hostFlag(v),
		Port:            portFlag(v),
		ShutdownTimeout: shutdownTimeoutFlag(v),
	}
}

func (c serverConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func runServer(cmd *cobra.Command, v *viper.Viper, location string) error {
	cfg := newServerConfig(v, location)

	src, err := source.Open(cmd.Context(), cfg.Location)
	if err != nil {
		return errors.Wrap(err, "failed to open source")
	}

	// bind before starting keel so a taken port fails the command
	ln, err := listen(cmd.Context(), cfg.Address())
	if err != nil {
		return multierr.Append(err, src.Close())
	}

	svr := keel.NewServer(
		keel.WithHTTPPrometheusService(servicePrometheusEnabledFlag(v)),
		keel.WithHTTPHealthzService(serviceHealthzEnabledFlag(v)),
		keel.WithPrometheusMeter(servicePrometheusEnabledFlag(v)),
		keel.WithGracefulPeriod(gracefulPeriodFlag(v)),
	)

	l := svr.Logger()

	srv := newHTTPServer(l.Named("svc.http"), cfg, src)

	svr.AddReadinessHealthzers(healthz.NewHealthzerFn(sourceHealthz(src, cfg.Location)))

	svr.AddClosers(src)

	svr.AddServices(
		service.NewGoRoutine(l.Named("go.http"), "http", serveHTTP(srv, ln, cfg)),
	)

	announce(cmd.OutOrStdout(), cfg)

	svr.Run()
	return nil
}

func newHTTPServer(l *zap.Logger, cfg serverConfig, src source.Source) *http.Server {
	h := handler.NewHTTP(l.Named("inst.handler"), src, handler.WithPath(cfg.ServePath))
	return &http.Server{
		Handler: middleware.Compose(l, "http", h,
			middleware.Logger(),
			middleware.Recover(),
		),
		ErrorLog: zap.NewStdLog(l),
	}
}

// sourceHealthz reports unhealthy while the served file is missing
func sourceHealthz(src source.Source, location string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ok, err := src.Exists(ctx)
		if err != nil {
			return err
		} else if !ok {
			return errors.Errorf("binary file %s does not exist", location)
		}
		return nil
	}
}

// serveHTTP runs srv on ln until ctx is done
func serveHTTP(srv *http.Server, ln net.Listener, cfg serverConfig) func(ctx context.Context, l *zap.Logger) error {
	return func(ctx context.Context, l *zap.Logger) error {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				shutdown(l, srv, cfg.ShutdownTimeout)
			case <-done:
			}
		}()
		l.Info("starting http server",
			zap.String("address", ln.Addr().String()),
			zap.String("path", cfg.ServePath),
			zap.String("source", cfg.Location),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func announce(w io.Writer, cfg serverConfig) {
	_, _ = fmt.Fprintf(w, "Serving %s as %s at port %d\n", cfg.Location, cfg.ServePath, cfg.Port)
}

func listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", addr)
	}
	return ln, nil
}

func shutdown(l *zap.Logger, srv *http.Server, timeout time.Duration) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := srv.Shutdown(ctx); err != nil {
		l.Warn("failed to shutdown http server gracefully", zap.Error(err))
		if err := srv.Close(); err != nil {
			l.Warn("failed to close http server", zap.Error(err))
		}
	}
}
