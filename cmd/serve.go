/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/dictmatrix/internal/iodispatch"
	"github.com/gnames/dictmatrix/internal/iometrics"
	"github.com/gnames/dictmatrix/internal/iorest"
	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST service",
		Long: `Run the REST service together with its background workers.

Import and linking requests are stored and queued, each queue has its own
number of workers (upload.workers, api_import.workers, linking.workers).
Every job runs in a child process that is killed when it exceeds the
timeout of its kind. Prometheus metrics are served at /metrics.

The service stops on SIGINT or SIGTERM. Jobs still in the queues are
abandoned, running child processes are killed.

Examples:
  dictmatrix serve
  dictmatrix serve -p 9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args, port)
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 0,
		"port of the service (default from config)")
	return serveCmd
}

func runServe(_ *cobra.Command, _ []string, port int) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if port > 0 {
		cfg.Update([]config.Option{config.OptServerPort(port)})
	}

	a, err := openApp(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer a.Close()

	m := iometrics.New()
	fileQ, err := dispatcher(kindImport, cfg.Upload.Workers, cfg.Upload.Timeout, m)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	apiQ, err := dispatcher(kindAPIImport, cfg.APIImport.Workers, cfg.APIImport.Timeout, m)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	linkQ, err := dispatcher(kindLink, cfg.Linking.Workers, cfg.Linking.Timeout, m)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	ds := []*iodispatch.Dispatcher{fileQ, apiQ, linkQ}
	for _, d := range ds {
		d.Start(ctx)
	}

	srv := iorest.New(cfg, a.store, a.linker(), iorest.Queues{
		File:    fileQ,
		API:     apiQ,
		Linking: linkQ,
	}, m)

	gn.Info("Serving on port <em>%d</em>, site URL <em>%s</em>",
		cfg.Server.Port, cfg.Server.SiteURL)
	err = srv.Run(ctx)

	for _, d := range ds {
		d.Close()
	}
	for _, d := range ds {
		if werr := d.Wait(); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Service stopped")
	return nil
}

// dispatcher creates a queue whose jobs run in worker child processes.
func dispatcher(
	kind string,
	workers, timeout int,
	m *iometrics.Metrics,
) (*iodispatch.Dispatcher, error) {
	runner, err := iodispatch.NewProcessRunner(config.Seconds(timeout))
	if err != nil {
		return nil, err
	}
	return iodispatch.New(kind, workers, runner, iodispatch.OptMetrics(m)), nil
}
