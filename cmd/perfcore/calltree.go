package main

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"

	"github.com/serima/perfcore/internal/calltree"
	"github.com/serima/perfcore/internal/profile"
	"github.com/serima/perfcore/internal/storageutil"
)

type ThreadCallTree struct {
	ThreadName                string                 `json:"thread_name"`
	Tid                       int                    `json:"tid"`
	CallNodeTable             calltree.CallNodeTable `json:"call_node_table"`
	StackIndexToCallNodeIndex []int                  `json:"stack_index_to_call_node_index"`
	Samples                   profile.SamplesTable   `json:"samples"`
}

type GetCallTreeResponse struct {
	CallTrees []ThreadCallTree `json:"call_trees"`
}

func (env *environment) getCallTree(w http.ResponseWriter, r *http.Request) {
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

	s := sentry.StartSpan(ctx, "calltree.build")
	s.Description = "Filter threads and build call trees"
	response := GetCallTreeResponse{CallTrees: make([]ThreadCallTree, 0, len(p.Threads))}
	for i := range p.Threads {
		thread, err := applyFilters(&p.Threads[i], r.URL.Query())
		if err != nil {
			s.Finish()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		info := calltree.GetCallNodeInfo(thread.Stacks, thread.Frames, thread.Funcs)
		response.CallTrees = append(response.CallTrees, ThreadCallTree{
			ThreadName:                thread.Name,
			Tid:                       thread.Tid,
			CallNodeTable:             info.CallNodeTable,
			StackIndexToCallNodeIndex: info.StackIndexToCallNodeIndex,
			Samples:                   thread.Samples,
		})
	}
	s.Finish()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		hub.CaptureException(err)
	}
}
