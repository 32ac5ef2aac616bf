package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kbukum/errhandling/dispatch"
	"github.com/kbukum/errhandling/httpclient"
	"github.com/kbukum/errhandling/logger"
	"github.com/kbukum/errhandling/normalize"
	"github.com/kbukum/errhandling/observability"
	"github.com/kbukum/errhandling/validation"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		method  string
		body    string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Send a request and route a failure to its status handler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			d := newFetchDispatcher(out, a.log)
			report := func(err error) error {
				if derr := d.Dispatch(err); derr != nil {
					return derr
				}
				return errReported
			}

			method = strings.ToUpper(method)
			if err := validateFetch(args[0], method, headers, a.cfg.HTTP.BaseURL != ""); err != nil {
				return report(err)
			}

			client, err := httpclient.New(a.cfg.HTTP, httpclient.WithLogger(a.log))
			if err != nil {
				return err
			}

			req := httpclient.Request{
				Method:  method,
				Path:    args[0],
				Headers: parseHeaders(headers),
			}
			if body != "" {
				req.Body = body
			}

			resp, err := client.Do(cmd.Context(), req)
			if err != nil {
				return report(err)
			}
			color.New(color.FgGreen).Fprintf(out, "%d %s\n", resp.Status, resp.StatusText)
			printData(out, resp.Data)
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringVarP(&body, "data", "d", "", "request body")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "request header as 'Name: value' (repeatable)")
	return cmd
}

var fetchMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// validateFetch checks the fetch arguments before anything is sent. Without
// a base URL the target must be an absolute http(s) URL.
func validateFetch(target, method string, headers []string, hasBaseURL bool) error {
	v := validation.New().
		Required("url", target).
		OneOf("method", method, fetchMethods)

	if !hasBaseURL && strings.TrimSpace(target) != "" {
		u, err := url.Parse(target)
		absolute := err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		v.Custom(absolute, "url", "must be an absolute http(s) URL when http.base_url is unset")
	}
	for _, h := range headers {
		name, _, ok := strings.Cut(h, ":")
		v.Custom(ok && strings.TrimSpace(name) != "", "header", fmt.Sprintf("%q is not 'Name: value'", h))
	}
	return v.Validate()
}

// newFetchDispatcher routes failed requests to one colored line per status family.
func newFetchDispatcher(out io.Writer, log *logger.Logger) *dispatch.Dispatcher[any] {
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgMagenta)
	fatal := color.New(color.FgRed, color.Bold)

	handlers := dispatch.Handlers[any]().
		On(http.StatusBadRequest, statusLine(out, bad, "bad request")).
		On(http.StatusUnauthorized, statusLine(out, warn, "unauthorized: check credentials")).
		On(http.StatusForbidden, statusLine(out, warn, "forbidden: missing permission")).
		On(http.StatusNotFound, statusLine(out, warn, "not found")).
		On(http.StatusUnprocessableEntity, statusLine(out, bad, "rejected input")).
		OnRange(500, 599, statusLine(out, fatal, "server error")).
		OnDefault(statusLine(out, fatal, "request failed")).
		Build()

	return dispatch.New(handlers,
		dispatch.WithLogger(log),
		dispatch.WithMeter(observability.Meter(serviceName)),
	)
}

// statusLine prints the status, a hint and the response data.
func statusLine(out io.Writer, c *color.Color, hint string) dispatch.Handler[any] {
	return func(data any, raw any) {
		n, err := normalize.Normalize(raw)
		if err != nil {
			return
		}
		if n.HasStatus() {
			c.Fprintf(out, "%d %s", n.StatusCode, n.StatusMessage)
		} else {
			c.Fprint(out, n.Message)
		}
		fmt.Fprintf(out, " (%s)\n", hint)
		printData(out, data)
	}
}

func printData(out io.Writer, data any) {
	if data == nil {
		return
	}
	if s, ok := data.(string); ok {
		fmt.Fprintln(out, s)
		return
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "%v\n", data)
		return
	}
	fmt.Fprintln(out, string(b))
}

// parseHeaders turns "Name: value" pairs into a map. Malformed entries, which
// validateFetch rejects, are skipped.
func parseHeaders(raw []string) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers
}
