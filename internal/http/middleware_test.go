package http

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParamsMiddlewareScopesVerboseLogging(t *testing.T) {
	before := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	t.Cleanup(func() { log.SetLevel(before) })

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := log.InfoLevel
		if r.URL.Query().Get("verbose") == "true" {
			want = log.DebugLevel
		}
		assert.Equal(t, want, log.FromContext(r.Context()).GetLevel())
		assert.Equal(t, log.InfoLevel, log.GetLevel())
		assert.Equal(t, r.URL.Query().Get("dry_run") == "true", isDryRunFromContext(r))
	}), paramsMiddleware)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		target := "/health?dry_run=true"
		if i%2 == 0 {
			target = "/health?verbose=true"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
		}()
	}
	wg.Wait()
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
