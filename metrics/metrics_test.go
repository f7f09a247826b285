package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(requestsTotal.WithLabelValues("voti", "200"))

	RecordRequest("voti", 200)
	RecordRequest("voti", 200)

	after := testutil.ToFloat64(requestsTotal.WithLabelValues("voti", "200"))
	if after-before != 2 {
		t.Errorf("Expected counter to grow by 2, grew by %v", after-before)
	}
}

func TestRecordUpstream_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(upstreamErrors.WithLabelValues("carta"))

	RecordUpstream("carta", 15*time.Millisecond, nil)
	RecordUpstream("carta", 20*time.Millisecond, errors.New("connection refused"))

	after := testutil.ToFloat64(upstreamErrors.WithLabelValues("carta"))
	if after-before != 1 {
		t.Errorf("Expected one error recorded, got %v", after-before)
	}
}
