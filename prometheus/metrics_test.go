package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBillCommitted(t *testing.T) {
	bills := testutil.ToFloat64(BillsCommittedCounter)
	degraded := testutil.ToFloat64(DegradedAllocationsCounter)

	RecordBillCommitted(false)
	RecordBillCommitted(true)

	assert.Equal(t, bills+2, testutil.ToFloat64(BillsCommittedCounter))
	assert.Equal(t, degraded+1, testutil.ToFloat64(DegradedAllocationsCounter))
}

func TestRecordCommitFailure(t *testing.T) {
	before := testutil.ToFloat64(CommitFailuresCounter.WithLabelValues("writing_bill"))
	RecordCommitFailure("writing_bill")
	assert.Equal(t, before+1, testutil.ToFloat64(CommitFailuresCounter.WithLabelValues("writing_bill")))
}

func TestProductInventoryGauge(t *testing.T) {
	UpdateProductInventory("p1", "Soap", "Toiletries", 7)
	assert.Equal(t, 7.0, testutil.ToFloat64(ProductInventoryGauge.WithLabelValues("p1", "Soap", "Toiletries")))

	RemoveProductInventory("p1", "Soap", "Toiletries")
	assert.Equal(t, 0, testutil.CollectAndCount(ProductInventoryGauge))
}

func TestTrackDBOperation(t *testing.T) {
	TrackDBOperation("test_op")(time.Now())
	assert.Equal(t, 1, testutil.CollectAndCount(DbOperationDuration, "vyapar_db_operation_duration_seconds"))
}
