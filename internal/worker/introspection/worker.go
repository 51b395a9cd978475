// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package introspection serves the state of a running search over HTTP.
//
//	/metrics  prometheus metrics
//	/status   the status log, newest first
//	/records  the record candidates currently held, as JSON
//	/best     the best record candidate, as JSON
package introspection

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/tomb.v2"

	"github.com/juju/persistence/core/logger"
	"github.com/juju/persistence/internal/search/records"
)

// shutdownTimeout bounds how long in flight requests are given to finish.
const shutdownTimeout = 5 * time.Second

// Reporter exposes the state of a search.
type Reporter interface {
	Records() []records.Candidate
	Best() (records.Candidate, bool)
	Status() string
	Frontier() uint64
	QueueDepth() int
	Elapsed() time.Duration
}

// Config describes the arguments required to create the introspection
// worker.
type Config struct {
	// Address is the TCP address to listen on.
	Address string

	Reporter Reporter
	Gatherer prometheus.Gatherer
	Logger   logger.Logger
}

// Validate checks the config values to assert they are valid to create the
// worker.
func (c Config) Validate() error {
	if c.Address == "" {
		return errors.NotValidf("empty Address")
	}
	if c.Reporter == nil {
		return errors.NotValidf("nil Reporter")
	}
	if c.Gatherer == nil {
		return errors.NotValidf("nil Gatherer")
	}
	if c.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// Worker serves the introspection endpoints.
type Worker struct {
	tomb     tomb.Tomb
	cfg      Config
	listener net.Listener
	server   *http.Server
}

// NewWorker starts an HTTP server for the introspection endpoints.
func NewWorker(cfg Config) (*Worker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, errors.Annotatef(err, "listening on %q", cfg.Address)
	}

	w := &Worker{
		cfg:      cfg,
		listener: listener,
	}
	w.server = &http.Server{
		Handler:           w.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Addr returns the address the worker is listening on.
func (w *Worker) Addr() net.Addr {
	return w.listener.Addr()
}

// Kill is part of the worker.Worker interface.
func (w *Worker) Kill() {
	w.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Worker) Wait() error {
	return w.tomb.Wait()
}

func (w *Worker) loop() error {
	w.cfg.Logger.Infof("introspection listening on %s", w.listener.Addr())

	served := make(chan error, 1)
	go func() {
		served <- w.server.Serve(w.listener)
	}()

	select {
	case <-w.tomb.Dying():
	case err := <-served:
		if err != http.ErrServerClosed {
			return errors.Annotate(err, "serving introspection")
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := w.server.Shutdown(ctx); err != nil {
		w.cfg.Logger.Warningf("introspection shutdown: %v", err)
	}
	<-served
	return tomb.ErrDying
}

func (w *Worker) router() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(w.cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/status", w.status).Methods(http.MethodGet)
	r.HandleFunc("/records", w.records).Methods(http.MethodGet)
	r.HandleFunc("/best", w.best).Methods(http.MethodGet)
	return r
}

func (w *Worker) status(rw http.ResponseWriter, _ *http.Request) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(rw, "elapsed: %v\nfrontier: %d\nqueued batches: %d\n\n",
		w.cfg.Reporter.Elapsed(), w.cfg.Reporter.Frontier(), w.cfg.Reporter.QueueDepth())
	fmt.Fprint(rw, w.cfg.Reporter.Status())
}

func (w *Worker) records(rw http.ResponseWriter, _ *http.Request) {
	w.writeJSON(rw, w.cfg.Reporter.Records())
}

func (w *Worker) best(rw http.ResponseWriter, _ *http.Request) {
	best, ok := w.cfg.Reporter.Best()
	if !ok {
		http.Error(rw, "no record candidates found yet", http.StatusNotFound)
		return
	}
	w.writeJSON(rw, best)
}

func (w *Worker) writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		w.cfg.Logger.Errorf("writing introspection response: %v", err)
	}
}
