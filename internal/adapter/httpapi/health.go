package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/galerie-com/move/pkg/apperr"
	"github.com/galerie-com/move/pkg/logger"
)

// Check is one named readiness probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Readiness aggregates dependency probes; every failing probe is
// reported, not just the first.
type Readiness struct {
	Checks  []Check
	Timeout time.Duration
}

func (r *Readiness) check(ctx context.Context) error {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var combined error
	for _, chk := range r.Checks {
		if err := chk.Probe(ctx); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("%s: %w", chk.Name, err))
		}
	}
	return combined
}

func healthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, map[string]string{"status": "live"})
	}
}

func healthReady(readiness *Readiness, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readiness != nil {
			if err := readiness.check(r.Context()); err != nil {
				writeError(r.Context(), logg, w, apperr.Wrap(apperr.CodeDependency, err, "not ready"))
				return
			}
		}
		writeSuccess(w, map[string]string{"status": "ready"})
	}
}
