package main

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/serima/perfcore/internal/calltree"
	"github.com/serima/perfcore/internal/profile"
)

// messageWriter is the part of kafka.Writer the service depends on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CallTreesKafkaMessage is the payload published after a profile is
// ingested, one call tree per thread.
type CallTreesKafkaMessage struct {
	ProfileID string           `json:"profile_id"`
	Product   string           `json:"product"`
	Version   int              `json:"version"`
	CallTrees []ThreadCallTree `json:"call_trees"`
}

func buildCallTreesKafkaMessage(profileID string, p *profile.Profile) CallTreesKafkaMessage {
	message := CallTreesKafkaMessage{
		ProfileID: profileID,
		Product:   p.Meta.Product,
		Version:   p.Meta.Version,
		CallTrees: make([]ThreadCallTree, 0, len(p.Threads)),
	}
	for i := range p.Threads {
		thread := &p.Threads[i]
		info := calltree.GetCallNodeInfo(thread.Stacks, thread.Frames, thread.Funcs)
		message.CallTrees = append(message.CallTrees, ThreadCallTree{
			ThreadName:                thread.Name,
			Tid:                       thread.Tid,
			CallNodeTable:             info.CallNodeTable,
			StackIndexToCallNodeIndex: info.StackIndexToCallNodeIndex,
			Samples:                   thread.Samples,
		})
	}
	return message
}

// publishCallTrees derives call trees for every thread of the profile and
// hands them to the async Kafka writer. Publishing is best effort, a
// failure never fails the ingest request.
func (env *environment) publishCallTrees(ctx context.Context, profileID string, p *profile.Profile) {
	s := sentry.StartSpan(ctx, "processing")
	s.Description = "Build call trees Kafka message"
	b, err := json.Marshal(buildCallTreesKafkaMessage(profileID, p))
	s.Finish()
	if err != nil {
		log.Err(err).Str("profile_id", profileID).Msg("can't marshal call trees message")
		sentry.CaptureException(err)
		return
	}

	s = sentry.StartSpan(ctx, "processing")
	s.Description = "Send call trees to Kafka"
	err = env.callTreesWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(profileID),
		Value: b,
	})
	s.Finish()
	if err != nil {
		log.Err(err).Str("profile_id", profileID).Msg("can't publish call trees message")
		sentry.CaptureException(err)
	}
}
