package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunKind distinguishes the two supported search spaces.
type RunKind string

const (
	RunContinuous RunKind = "continuous"
	RunTour       RunKind = "tour"
)

type RunRecord struct {
	VersionedRecord
	ID             string  `json:"id"`
	CreatedAtUTC   string  `json:"created_at_utc"`
	Kind           RunKind `json:"kind"`
	Objective      string  `json:"objective"`
	Dimensions     int     `json:"dimensions"`
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	CrossoverRate  float64 `json:"crossover_rate"`
	CrossoverOp    string  `json:"crossover_op"`
	MutationOp     string  `json:"mutation_op"`
	Seed           int64   `json:"seed"`
	BestScore      float64 `json:"best_score"`
}

type GenerationDiagnostics struct {
	Generation int     `json:"generation"`
	BestScore  float64 `json:"best_score"`
	MeanScore  float64 `json:"mean_score"`
	WorstScore float64 `json:"worst_score"`
}

// BestGenomeRecord stores the elite of a run's final generation. Exactly one
// of Vector and Tour is populated, matching the run kind.
type BestGenomeRecord struct {
	VersionedRecord
	RunID  string    `json:"run_id"`
	Vector []float64 `json:"vector,omitempty"`
	Tour   []int     `json:"tour,omitempty"`
	Score  float64   `json:"score"`
}
