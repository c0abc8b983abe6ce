package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCatalogRequest(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		err     error
		outcome string
	}{
		{name: "successful search", op: "search", outcome: "success"},
		{name: "failed listing", op: "list", err: errors.New("boom"), outcome: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues(tt.op, tt.outcome))
			RecordCatalogRequest(tt.op, 15*time.Millisecond, tt.err)
			after := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues(tt.op, tt.outcome))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestRecordDiscovery(t *testing.T) {
	before := testutil.CollectAndCount(DiscoveryResults)
	RecordDiscovery("metrics_test", 4)
	assert.Equal(t, before+1, testutil.CollectAndCount(DiscoveryResults))
}
