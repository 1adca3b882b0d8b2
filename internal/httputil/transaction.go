package httputil

import (
	"strconv"

	"github.com/getsentry/sentry-go"
)

const httpStatusCodeTag = "http.response.status_code"

// SetHTTPStatusCodeTag tags outgoing transaction events with the response
// status code. Meant to be installed as BeforeSendTransaction.
func SetHTTPStatusCodeTag(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if hint.Response == nil {
		return event
	}
	if event.Tags == nil {
		event.Tags = make(map[string]string)
	}
	if _, ok := event.Tags[httpStatusCodeTag]; !ok {
		event.Tags[httpStatusCodeTag] = strconv.Itoa(hint.Response.StatusCode)
	}
	return event
}
