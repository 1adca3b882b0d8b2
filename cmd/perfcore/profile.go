package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/serima/perfcore/internal/errorutil"
	"github.com/serima/perfcore/internal/httputil"
	"github.com/serima/perfcore/internal/profile"
	"github.com/serima/perfcore/internal/storageutil"
)

type PostProfileResponse struct {
	ProfileID string `json:"profile_id"`
}

func profileStoragePath(profileID string) string {
	return "profiles/" + profileID
}

// readProfile fetches a stored profile and re-validates it. A profile that
// was accepted at ingest but no longer decodes or validates is reported as
// an ErrDataIntegrity failure.
func (env *environment) readProfile(ctx context.Context, profileID string) (*profile.Profile, error) {
	var p profile.Profile
	s := sentry.StartSpan(ctx, "storage.read")
	s.Description = "Read profile from storage"
	err := storageutil.UnmarshalCompressed(ctx, env.store, profileStoragePath(profileID), &p)
	s.Finish()
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: profile %s: %s", errorutil.ErrDataIntegrity, profileID, err)
	}
	return &p, nil
}

func (env *environment) postProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)

	s := sentry.StartSpan(ctx, "request.body")
	s.Description = "Read request body"
	body, err := io.ReadAll(r.Body)
	s.Finish()
	if err != nil {
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	env.ingestProfile(w, r, body)
}

func (env *environment) postProfileFromURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)

	params, logger, ok := httputil.GetRequiredQueryParameters(w, r, "url")
	if !ok {
		return
	}

	s := sentry.StartSpan(ctx, "http.fetch")
	s.Description = "Fetch remote profile"
	body, err := env.fetcher.Profile(params["url"])
	s.Finish()
	if err != nil {
		logger.Err(err).Msg("remote profile can't be fetched")
		hub.CaptureException(err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	env.ingestProfile(w, r, body)
}

func (env *environment) ingestProfile(w http.ResponseWriter, r *http.Request, body []byte) {
	ctx := r.Context()
	hub := sentry.GetHubFromContext(ctx)

	s := sentry.StartSpan(ctx, "json.unmarshal")
	s.Description = "Unmarshal profile"
	var p profile.Profile
	err := json.Unmarshal(body, &p)
	s.Finish()
	if err != nil {
		log.Err(err).Msg("profile can't be unmarshaled")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := p.Validate(); err != nil {
		log.Warn().Err(err).Msg("profile failed validation")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	profileID := uuid.New().String()

	s = sentry.StartSpan(ctx, "storage.write")
	s.Description = "Write profile to storage"
	err = storageutil.CompressedWrite(ctx, env.store, profileStoragePath(profileID), &p)
	s.Finish()
	if err != nil {
		hub.CaptureException(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	env.publishCallTrees(ctx, profileID, &p)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(PostProfileResponse{ProfileID: profileID}); err != nil {
		hub.CaptureException(err)
	}
}
