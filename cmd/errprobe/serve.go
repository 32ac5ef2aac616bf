package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kbukum/errhandling/dispatch"
	apperrors "github.com/kbukum/errhandling/errors"
	"github.com/kbukum/errhandling/httpclient"
	"github.com/kbukum/errhandling/logger"
	"github.com/kbukum/errhandling/normalize"
	"github.com/kbukum/errhandling/observability"
	"github.com/kbukum/errhandling/server"
	"github.com/kbukum/errhandling/server/middleware"
	"github.com/kbukum/errhandling/validation"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP gateway that answers every failure with a normalized error body",
		Long: "Serves POST /normalize, which echoes the normalized record of a JSON error payload,\n" +
			"and /proxy/*path, which forwards to http.base_url and relays upstream failures.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gw, err := a.newGateway()
			if err != nil {
				return err
			}
			srv := server.New(a.cfg.Server, a.log)
			gw.register(srv.Engine())

			if err := srv.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return srv.Stop(context.WithoutCancel(ctx))
		},
	}
}

// gateway holds the middleware chain and the upstream client.
type gateway struct {
	chain  []gin.HandlerFunc
	client *httpclient.Client
}

func (a *app) newGateway() (*gateway, error) {
	client, err := httpclient.New(a.cfg.HTTP, httpclient.WithLogger(a.log))
	if err != nil {
		return nil, err
	}

	var opts []server.Option
	opts = append(opts, server.WithLogger(a.log))
	if metrics, err := observability.NewMetrics(observability.Meter(serviceName)); err == nil {
		opts = append(opts, server.WithMetrics(metrics))
	} else {
		a.log.Warn("metrics disabled", logger.Fields(logger.FieldError, err.Error()))
	}

	return &gateway{
		chain: []gin.HandlerFunc{
			middleware.RequestID(),
			middleware.RequestLogger(a.log),
			server.Errors(newLogDispatcher(a.log), opts...),
			middleware.Recovery(a.log),
		},
		client: client,
	}, nil
}

func (g *gateway) register(engine *gin.Engine) {
	engine.Use(g.chain...)
	engine.Any("/proxy/*path", g.proxy)
	engine.POST("/normalize", normalizeHandler)
}

// newLogDispatcher logs every failed request at a level matching its status.
func newLogDispatcher(log *logger.Logger) *dispatch.Dispatcher[any] {
	entry := func(raw any) map[string]any {
		n, err := normalize.Normalize(raw)
		if err != nil {
			return nil
		}
		return logger.Fields(
			logger.FieldKind, n.Kind.String(),
			logger.FieldStatusCode, n.StatusCode,
			logger.FieldError, n.Message,
		)
	}

	handlers := dispatch.Handlers[any]().
		OnRange(400, 499, func(_ any, raw any) { log.Warn("client error", entry(raw)) }).
		OnRange(500, 599, func(_ any, raw any) { log.Error("server error", entry(raw)) }).
		OnDefault(func(_ any, raw any) { log.Error("unexpected error", entry(raw)) }).
		Build()

	return dispatch.New(handlers,
		dispatch.WithLogger(log),
		dispatch.WithMeter(observability.Meter(serviceName)),
	)
}

const maxProxyPathLength = 2048

var proxyMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// proxy forwards the request to the upstream and relays its answer.
func (g *gateway) proxy(c *gin.Context) {
	query := make(map[string]string, len(c.Request.URL.Query()))
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	path := "/" + strings.TrimPrefix(c.Param("path"), "/")
	if err := validation.New().
		OneOf("method", c.Request.Method, proxyMethods).
		MaxLength("path", path, maxProxyPathLength).
		Validate(); err != nil {
		_ = c.Error(err)
		return
	}

	req := httpclient.Request{
		Method: c.Request.Method,
		Path:   path,
		Query:  query,
	}
	if c.Request.ContentLength > 0 {
		req.Body = c.Request.Body
		req.Headers = map[string]string{"Content-Type": c.ContentType()}
	}
	if id, ok := c.Get(logger.FieldRequestID); ok {
		if req.Headers == nil {
			req.Headers = map[string]string{}
		}
		req.Headers[httpclient.HeaderRequestID], _ = id.(string)
	}

	resp, err := g.client.Do(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(resp.Status, server.DataResponse{Data: resp.Data})
}

// normalizeHandler echoes the normalized record of the posted payload.
func normalizeHandler(c *gin.Context) {
	var raw any
	if err := c.ShouldBindJSON(&raw); err != nil {
		_ = c.Error(apperrors.InvalidInput("body", "must be a JSON document"))
		return
	}

	n, err := normalize.Normalize(raw)
	if err != nil {
		_ = c.Error(apperrors.New(apperrors.ErrCodeInvalidInput, err.Error(), http.StatusUnprocessableEntity).
			WithStatusMessage("Unrecognized Error Shape"))
		return
	}
	c.JSON(http.StatusOK, record{Kind: n.Kind.String(), NormalizedError: n})
}
