package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

const (
	RunModeCellular = "cellular"
	RunModeGenetic  = "genetic"
)

// RunRecord identifies one recorded simulation run. Cell contents are never
// persisted; their representation belongs to the caller.
type RunRecord struct {
	VersionedRecord
	ID          string `json:"id"`
	Mode        string `json:"mode"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Generations int    `json:"generations"`
	Seed        int64  `json:"seed"`
	Strategy    string `json:"strategy,omitempty"`
	Binding     string `json:"binding,omitempty"`
}

// GenerationDiagnostics is the per-generation fitness summary of a genetic
// run.
type GenerationDiagnostics struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	MinFitness  float64 `json:"min_fitness"`
}
