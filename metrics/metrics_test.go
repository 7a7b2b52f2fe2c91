package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollector_RecordDownload(t *testing.T) {
	c := NewCollector("test")

	c.RecordDownload("s3", "307")
	c.RecordDownload("s3", "307")
	c.RecordDownload("local", "200")
	c.ObserveResolveDuration(25 * time.Millisecond)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	c.Handler().ServeHTTP(w, r)

	body := w.Body.String()
	if !strings.Contains(body, `test_downloads_total{backend="s3",status="307"} 2`) {
		t.Errorf("missing s3 counter in metrics output:\n%s", body)
	}
	if !strings.Contains(body, `test_downloads_total{backend="local",status="200"} 1`) {
		t.Errorf("missing local counter in metrics output:\n%s", body)
	}
	if !strings.Contains(body, "test_resolve_duration_seconds_count 1") {
		t.Errorf("missing resolve histogram in metrics output:\n%s", body)
	}
}
