package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/CAFxX/httpcompression"
	"github.com/dgraph-io/badger/v4"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/serima/perfcore/internal/fetch"
	"github.com/serima/perfcore/internal/httputil"
	"github.com/serima/perfcore/internal/logutil"
	"github.com/serima/perfcore/internal/storageprovider"
	"github.com/serima/perfcore/internal/storageutil"
)

type environment struct {
	config ServiceConfig

	store   storageutil.ObjectHandler
	fetcher *fetch.Client

	callTreesWriter messageWriter

	storage  *storage.Client
	badgerDB *badger.DB
}

var release string

func newEnvironment() (*environment, error) {
	var e environment
	var err error
	e.config, err = loadConfig()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	switch e.config.StorageProvider {
	case "gcs":
		e.storage, err = storage.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		e.store = &storageprovider.Gcs{
			BucketHandle: e.storage.Bucket(e.config.ProfilesBucket),
		}
	case "badger":
		e.badgerDB, err = badger.Open(badger.DefaultOptions(e.config.BadgerPath))
		if err != nil {
			return nil, err
		}
		e.store = &storageprovider.Badger{DB: e.badgerDB}
	default:
		return nil, fmt.Errorf("unknown storage provider %q", e.config.StorageProvider)
	}

	e.callTreesWriter = &kafka.Writer{
		Addr:         kafka.TCP(e.config.CallTreesKafkaBrokers...),
		Async:        true,
		Balancer:     kafka.CRC32Balancer{},
		BatchSize:    10,
		Compression:  kafka.Lz4,
		ReadTimeout:  3 * time.Second,
		Topic:        e.config.CallTreesKafkaTopic,
		WriteTimeout: 3 * time.Second,
	}

	e.fetcher = fetch.NewClient(
		e.config.FetchTimeout,
		e.config.FetchRetryCount,
		e.config.FetchMaxSizeMB<<20,
	)
	return &e, nil
}

func (e *environment) shutdown() {
	if e.storage != nil {
		if err := e.storage.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	if e.badgerDB != nil {
		if err := e.badgerDB.Close(); err != nil {
			sentry.CaptureException(err)
		}
	}
	if err := e.callTreesWriter.Close(); err != nil {
		sentry.CaptureException(err)
	}
	sentry.Flush(5 * time.Second)
}

func (e *environment) newRouter() (*httprouter.Router, error) {
	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		return nil, err
	}

	routes := []struct {
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{http.MethodGet, "/health", e.getHealth},
		{http.MethodGet, "/profiles/:profile_id/calltree", e.getCallTree},
		{http.MethodGet, "/profiles/:profile_id/markers", e.getMarkers},
		{http.MethodPost, "/profile", e.postProfile},
		{http.MethodPost, "/profile/url", e.postProfileFromURL},
	}

	router := httprouter.New()

	for _, route := range routes {
		handlerFunc := httputil.DecompressPayload(route.handler)
		handler := compress(handlerFunc)

		router.Handler(route.method, route.path, handler)
	}

	return router, nil
}

func main() {
	logutil.ConfigureLogger()

	env, err := newEnvironment()
	if err != nil {
		log.Fatal().Err(err).Msg("error setting up environment")
	}

	err = sentry.Init(sentry.ClientOptions{
		BeforeSendTransaction: httputil.SetHTTPStatusCodeTag,
		Dsn:                   env.config.SentryDSN,
		EnableTracing:         true,
		Environment:           env.config.Environment,
		Release:               release,
		TracesSampleRate:      1.0,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("can't initialize sentry")
	}

	router, err := env.newRouter()
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal().Err(err).Msg("error setting up the router")
	}

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", env.config.Port),
		Handler: sentryhttp.New(sentryhttp.Options{}).Handle(router),
	}

	waitForShutdown := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(cctx); err != nil {
			sentry.CaptureException(err)
			log.Err(err).Msg("error shutting down server")
		}

		close(waitForShutdown)
	}()

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		sentry.CaptureException(err)
		log.Err(err).Msg("server failed")
	}

	<-waitForShutdown

	// Shutdown the rest of the environment after the HTTP connections are closed
	env.shutdown()
}

func (e *environment) getHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
