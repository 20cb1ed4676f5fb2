// Copyright 2026 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pjscruggs/slogexchange"
	"github.com/pjscruggs/slogexchange/config"
	"github.com/pjscruggs/slogexchange/slogexchangehttp"
)

var (
	getMethod      string
	getHeaders     []string
	getData        string
	getTimeout     time.Duration
	getQuiet       bool
	getShowMetrics bool
	getWatch       bool
)

var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "Send one request and log the exchange",
	Long: `Send one HTTP request through the logging transport. Exchange records are
written to stderr and the response body to stdout.

With --watch, the configuration file is reloaded while the request is in
flight, which is mostly useful together with long-running downloads.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getMethod, "method", "X", http.MethodGet, "request method")
	getCmd.Flags().StringArrayVarP(&getHeaders, "header", "H", nil, "request header as 'Name: value' (repeatable)")
	getCmd.Flags().StringVarP(&getData, "data", "d", "", "request body; prefix with @ to read a file")
	getCmd.Flags().DurationVar(&getTimeout, "timeout", 30*time.Second, "request timeout")
	getCmd.Flags().BoolVarP(&getQuiet, "quiet", "q", false, "do not print the response body")
	getCmd.Flags().BoolVar(&getShowMetrics, "metrics", false, "print capture metrics after the exchange")
	getCmd.Flags().BoolVar(&getWatch, "watch", false, "reload --config while the request runs")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), logFormat, verbose)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	pipeline, err := slogexchange.NewPipelineFromConfig(cfg,
		slogexchange.WithRequestLogger(logger.With("logger", "request")),
		slogexchange.WithResponseLogger(logger.With("logger", "response")),
		slogexchange.WithInternalLogger(logger),
		slogexchange.WithMetrics(slogexchange.NewMetrics(registry)),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, getTimeout)
	defer cancel()
	// The sink is owned here so the summary record below still carries the
	// exchange attributes.
	ctx = slogexchange.ContextWithSink(ctx, slogexchange.NewSink())
	defer pipeline.Cleanup(ctx)

	if getWatch && cfgFile != "" {
		go func() {
			err := config.Watch(ctx, cfgFile, func(next *config.Config) {
				if err := pipeline.UpdateFromConfig(next); err != nil {
					logger.Warn("apply reloaded config", "error", err)
				}
			}, config.WithLogger(logger))
			if err != nil && ctx.Err() == nil {
				logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	req, err := buildRequest(ctx, getMethod, args[0], getHeaders, getData)
	if err != nil {
		return err
	}

	client := slogexchangehttp.Client(
		slogexchangehttp.WithPipeline(pipeline),
		slogexchangehttp.WithLogger(logger),
	)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out := io.Discard
	if !getQuiet {
		out = cmd.OutOrStdout()
	}
	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	logger.InfoContext(ctx, "exchange complete", "bytes_read", n)

	if getShowMetrics {
		if err := printMetrics(cmd.ErrOrStderr(), registry); err != nil {
			return err
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

// buildRequest assembles the request from command-line flags. Bodies are
// strings.Reader values so net/http sets GetBody and the body is captured.
func buildRequest(ctx context.Context, method, url string, headers []string, data string) (*http.Request, error) {
	var body io.Reader
	if data != "" {
		if path, ok := strings.CutPrefix(data, "@"); ok {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read request body: %w", err)
			}
			data = string(raw)
		}
		body = strings.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q (want 'Name: value')", h)
		}
		req.Header.Add(name, strings.TrimSpace(value))
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", slogexchange.UserAgent())
	}
	return req, nil
}

// printMetrics writes counter and histogram sample counts from registry in
// a flat name{labels} value form.
func printMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			sort.Strings(labels)
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}
