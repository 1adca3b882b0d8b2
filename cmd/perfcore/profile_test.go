package main

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/dgraph-io/badger/v4"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/serima/perfcore/internal/storageprovider"
)

var testBadgerDB *badger.DB

func TestMain(m *testing.M) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true))
	if err != nil {
		log.Fatalf("couldn't open an in-memory badger database: %s", err.Error())
	}
	testBadgerDB = db

	code := m.Run()

	if err := db.Close(); err != nil {
		log.Printf("couldn't close the badger database: %s", err.Error())
	}

	os.Exit(code)
}

const profileJSON = `{
	"meta": {"interval": 1, "product": "Firefox", "startTime": 0, "version": 27},
	"threads": [{
		"name": "GeckoMain",
		"processType": "default",
		"tid": 1,
		"pid": 100,
		"processStartupTime": 0,
		"funcTable": {
			"name": [0, 1],
			"resource": [null, null],
			"address": [null, null],
			"isJS": [false, true],
			"fileName": [null, 2],
			"lineNumber": [null, 12],
			"length": 2
		},
		"frameTable": {
			"address": [null, null],
			"category": [null, null],
			"func": [0, 1],
			"implementation": [null, null],
			"line": [null, null],
			"optimizations": [null, null],
			"length": 2
		},
		"stackTable": {
			"frame": [0, 1],
			"prefix": [null, 0],
			"length": 2
		},
		"samples": {
			"responsiveness": [null, null],
			"rss": [null, null],
			"stack": [0, 1],
			"time": [1, 2],
			"uss": [null, null],
			"length": 2
		},
		"markers": {"data": [], "name": [], "time": [], "length": 0},
		"resourceTable": {"name": [], "lib": [], "host": [], "type": [], "length": 0},
		"stringTable": ["main", "onLoad", "app.js"]
	}]
}`

func newTestEnvironment() *environment {
	return &environment{
		store:           &storageprovider.Badger{DB: testBadgerDB},
		callTreesWriter: KafkaWriterMock{},
	}
}

func TestPostProfileAndGetCallTree(t *testing.T) {
	env := newTestEnvironment()
	router, err := env.newRouter()
	if err != nil {
		t.Fatal(err)
	}
	handler := sentryhttp.New(sentryhttp.Options{}).Handle(router)

	req := httptest.NewRequest(http.MethodPost, "/profile", bytes.NewBufferString(profileJSON))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected ingest status: %d", resp.StatusCode)
	}
	var posted PostProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&posted); err != nil {
		t.Fatal(err)
	}
	if posted.ProfileID == "" {
		t.Fatal("expected a profile id")
	}

	req = httptest.NewRequest(http.MethodGet, "/profiles/"+posted.ProfileID+"/calltree", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	resp = w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected calltree status: %d", resp.StatusCode)
	}
	var callTrees GetCallTreeResponse
	if err := json.NewDecoder(resp.Body).Decode(&callTrees); err != nil {
		t.Fatal(err)
	}
	if len(callTrees.CallTrees) != 1 {
		t.Fatalf("expected one thread, got %d", len(callTrees.CallTrees))
	}
	if got := callTrees.CallTrees[0].CallNodeTable.Length; got != 2 {
		t.Fatalf("expected 2 call nodes, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/profiles/"+posted.ProfileID+"/markers", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	resp = w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected markers status: %d", resp.StatusCode)
	}
	var markers GetMarkersResponse
	if err := json.NewDecoder(resp.Body).Decode(&markers); err != nil {
		t.Fatal(err)
	}
	if len(markers.Threads) != 1 {
		t.Fatalf("expected one thread, got %d", len(markers.Threads))
	}
}

func TestGetCallTreeFiltered(t *testing.T) {
	env := newTestEnvironment()
	router, err := env.newRouter()
	if err != nil {
		t.Fatal(err)
	}
	handler := sentryhttp.New(sentryhttp.Options{}).Handle(router)

	req := httptest.NewRequest(http.MethodPost, "/profile", bytes.NewBufferString(profileJSON))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	var posted PostProfileResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&posted); err != nil {
		t.Fatal(err)
	}

	// Only the JS function survives the implementation filter.
	req = httptest.NewRequest(http.MethodGet, "/profiles/"+posted.ProfileID+"/calltree?implementation=js", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var callTrees GetCallTreeResponse
	if err := json.NewDecoder(resp.Body).Decode(&callTrees); err != nil {
		t.Fatal(err)
	}
	if got := callTrees.CallTrees[0].CallNodeTable.Length; got != 1 {
		t.Fatalf("expected 1 call node, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/profiles/"+posted.ProfileID+"/calltree?implementation=java", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if code := w.Result().StatusCode; code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown implementation, got %d", code)
	}
}

func TestGetCallTreeNotFound(t *testing.T) {
	env := newTestEnvironment()
	router, err := env.newRouter()
	if err != nil {
		t.Fatal(err)
	}
	handler := sentryhttp.New(sentryhttp.Options{}).Handle(router)

	req := httptest.NewRequest(http.MethodGet, "/profiles/"+uuid.New().String()+"/calltree", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if code := w.Result().StatusCode; code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestPostProfileInvalid(t *testing.T) {
	env := newTestEnvironment()
	router, err := env.newRouter()
	if err != nil {
		t.Fatal(err)
	}
	handler := sentryhttp.New(sentryhttp.Options{}).Handle(router)

	// A stack table that references its own row breaks the ordering
	// requirement and must be rejected.
	body := bytes.ReplaceAll([]byte(profileJSON), []byte(`"prefix": [null, 0]`), []byte(`"prefix": [null, 1]`))
	req := httptest.NewRequest(http.MethodPost, "/profile", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if code := w.Result().StatusCode; code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

type KafkaWriterMock struct{}

func (k KafkaWriterMock) WriteMessages(_ context.Context, _ ...kafka.Message) error {
	return nil
}

func (k KafkaWriterMock) Close() error {
	return nil
}
