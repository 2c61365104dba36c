package ingestion

import (
	"fmt"

	"github.com/opsgrid/faultline/store"
)

// Stage names one step of the ingestion pipeline.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageReconcile Stage = "reconcile"
	StageEnrich    Stage = "enrich"
	StageIndex     Stage = "index"
)

// Result reports the outcome of one pipeline run. When Err is non-nil,
// FailedStage names the stage that stopped the run; counts from stages that
// completed before the failure remain valid, since stages do not roll each
// other back.
type Result struct {
	Records       int
	Inserted      int
	Updated       int
	Indexed       int
	IndexFailures []store.IndexFailure

	FailedStage Stage
	Err         error
}

// Failed reports whether the run stopped before completing all stages.
func (r *Result) Failed() bool { return r.Err != nil }

// String renders a one-line human-readable status.
func (r *Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("ingestion failed at %s stage: %v", r.FailedStage, r.Err)
	}
	if len(r.IndexFailures) > 0 {
		return fmt.Sprintf("ingested %d records (%d inserted, %d updated), indexed %d, %d failed to index",
			r.Records, r.Inserted, r.Updated, r.Indexed, len(r.IndexFailures))
	}
	return fmt.Sprintf("ingested %d records (%d inserted, %d updated), indexed %d",
		r.Records, r.Inserted, r.Updated, r.Indexed)
}
