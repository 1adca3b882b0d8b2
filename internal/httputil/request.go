package httputil

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GetRequiredQueryParameters reads the named query parameters and returns
// them with a logger annotated with each value. A missing or blank
// parameter writes a 400 response and returns ok=false, in which case the
// handler must return without writing anything else.
func GetRequiredQueryParameters(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, zerolog.Logger, bool) {
	query := r.URL.Query()
	params := make(map[string]string, len(names))
	lc := log.With()
	for _, name := range names {
		value := query.Get(name)
		if value == "" {
			http.Error(w, fmt.Sprintf("expected %s query parameter", name), http.StatusBadRequest)
			return nil, zerolog.Nop(), false
		}
		params[name] = value
		lc = lc.Str(name, value)
	}
	return params, lc.Logger(), true
}
