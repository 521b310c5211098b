package storage

import (
	"encoding/json"
	"errors"

	"panmixia/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeBestGenome(b model.BestGenomeRecord) ([]byte, error) {
	return json.Marshal(b)
}

func DecodeBestGenome(data []byte) (model.BestGenomeRecord, error) {
	var best model.BestGenomeRecord
	if err := json.Unmarshal(data, &best); err != nil {
		return model.BestGenomeRecord{}, err
	}
	if err := checkVersion(best.VersionedRecord); err != nil {
		return model.BestGenomeRecord{}, err
	}
	return best, nil
}

func EncodeHistory(history [][]float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeHistory(data []byte) ([][]float64, error) {
	var history [][]float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func EncodeDiagnostics(diagnostics []model.GenerationDiagnostics) ([]byte, error) {
	return json.Marshal(diagnostics)
}

func DecodeDiagnostics(data []byte) ([]model.GenerationDiagnostics, error) {
	var diagnostics []model.GenerationDiagnostics
	if err := json.Unmarshal(data, &diagnostics); err != nil {
		return nil, err
	}
	return diagnostics, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

// Stamp fills a record's version envelope with the current versions.
func Stamp() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}
