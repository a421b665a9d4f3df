package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/tailorflow/internal/application/auth"
	"github.com/jhoicas/tailorflow/internal/application/cache"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	"github.com/jhoicas/tailorflow/internal/infrastructure/storeclient"
	"github.com/jhoicas/tailorflow/pkg/config"
	"github.com/jhoicas/tailorflow/pkg/logger"
)

type globalOptions struct {
	email    string
	password string
	logLevel string
}

// app dependencias de una invocación del CLI.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	mode    string
	session *auth.SessionManager
	cache   *cache.Cache
	out     io.Writer
	errOut  io.Writer // avisos al usuario

	refreshErr error // resultado del último Refresh disparado por el login
}

// newApp carga la configuración y arma store, sesión y cache.
// El cache se recarga en cada login exitoso.
func newApp(opts *globalOptions, out, errOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{
		Env:    "development",
		Level:  opts.logLevel,
		Output: errOut,
	})

	endpoint, err := config.ResolveEndpoint(cfg.Client)
	if err != nil {
		return nil, err
	}
	store, mode := storeclient.New(storeclient.Config{
		Endpoint:        endpoint,
		Timeout:         cfg.Client.Timeout,
		FallbackLatency: cfg.Client.FallbackLatency,
	}, log)

	session := auth.NewSessionManager(store, log)
	a := &app{cfg: cfg, log: log, mode: mode, session: session, out: out, errOut: errOut}
	a.cache = cache.New(store, session, log)
	session.OnLogin(func(ctx context.Context, _ entity.User) error {
		a.refreshErr = a.cache.Refresh(ctx)
		return a.refreshErr
	})
	return a, nil
}

// login inicia sesión con las credenciales de los flags. En modo de respaldo sin
// credenciales usa la cuenta demo.
func (a *app) login(ctx context.Context, opts *globalOptions) error {
	email, password := opts.email, opts.password
	if email == "" && password == "" && a.mode == storeclient.ModeFallback {
		email, password = storeclient.DemoEmail, storeclient.DemoPassword
	}
	if email == "" || password == "" {
		return fmt.Errorf("%w: use --email/--password or TAILORFLOW_EMAIL/TAILORFLOW_PASSWORD", domain.ErrNoSession)
	}
	if _, err := a.session.Login(ctx, email, password); err != nil {
		return err
	}
	if a.refreshErr != nil {
		return fmt.Errorf("cargar órdenes y clientes: %w", a.refreshErr)
	}
	return nil
}

// finish espera los envíos pendientes y reporta los avisos y las órdenes no guardadas.
func (a *app) finish(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		a.cache.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		fmt.Fprintln(a.errOut, "warning: some changes are still being sent to the backend")
		return
	}

	for _, w := range a.cache.Warnings() {
		fmt.Fprintln(a.errOut, "warning:", w)
	}
	if stale := a.cache.StaleOrders(); len(stale) > 0 {
		fmt.Fprintf(a.errOut, "warning: %d order(s) differ from the backend until the next refresh: %v\n", len(stale), stale)
	}
}

// sessionApp arma la app e inicia sesión; es el prólogo de casi todos los comandos.
func sessionApp(ctx context.Context, opts *globalOptions, out, errOut io.Writer) (*app, error) {
	a, err := newApp(opts, out, errOut)
	if err != nil {
		return nil, err
	}
	if err := a.login(ctx, opts); err != nil {
		return nil, err
	}
	return a, nil
}

// submitWait tope de espera de los envíos en segundo plano al terminar un comando.
func (a *app) submitWait() time.Duration {
	if a.cfg.Client.Timeout > 0 {
		return a.cfg.Client.Timeout + time.Second
	}
	return storeclient.DefaultTimeout
}
