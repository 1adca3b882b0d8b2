package main

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"

	"github.com/serima/perfcore/internal/marker"
	"github.com/serima/perfcore/internal/storageutil"
)

type ThreadMarkers struct {
	ThreadName string                 `json:"thread_name"`
	Tid        int                    `json:"tid"`
	Markers    []marker.TracingMarker `json:"markers"`
}

type GetMarkersResponse struct {
	Threads []ThreadMarkers `json:"threads"`
}

func (env *environment) getMarkers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)
	ps := httprouter.ParamsFromContext(ctx)
	profileID := ps.ByName("profile_id")
	hub.Scope().SetTag("profile_id", profileID)

	p, err := env.readProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, storageutil.ErrObjectNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	s := sentry.StartSpan(ctx, "markers.pair")
	s.Description = "Pair tracing markers"
	response := GetMarkersResponse{Threads: make([]ThreadMarkers, 0, len(p.Threads))}
	for i := range p.Threads {
		thread, err := applyRangeFilter(&p.Threads[i], r.URL.Query())
		if err != nil {
			s.Finish()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		response.Threads = append(response.Threads, ThreadMarkers{
			ThreadName: thread.Name,
			Tid:        thread.Tid,
			Markers:    marker.TracingMarkers(thread.Markers, thread.Strings),
		})
	}
	s.Finish()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		hub.CaptureException(err)
	}
}
