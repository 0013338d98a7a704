package ports

import "promptworld/internal/domain/evaluation"

type KPIRecorder interface {
	RecordEvaluation(m evaluation.Metrics)
	RecordStep(done bool)
	RecordWorldEvent(kind string)
	RecordPlan(found bool)
}
