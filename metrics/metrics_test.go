package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpzouying/unsave-mcp/unsave"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	var _ unsave.Observer = r

	r.ObserveOutcome(unsave.Acted)
	r.ObserveOutcome(unsave.Acted)
	r.ObserveOutcome(unsave.SkippedAlreadyUnsaved)
	r.ObserveOutcome(unsave.Failed("detached"))
	r.ObserveBatch(4)
	r.ObserveExtent(3200)
	r.ObserveRun(&unsave.Report{Completed: true})
	r.ObserveRun(&unsave.Report{})
	r.ObserveRun(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.outcomes.WithLabelValues("acted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomes.WithLabelValues("skipped_already_unsaved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomes.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.batches))
	assert.Equal(t, 3200.0, testutil.ToFloat64(r.extent))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("aborted")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsave_posts_total")
}
