package storage

import (
	"errors"
	"reflect"
	"testing"

	"panmixia/internal/model"
)

func TestRunCodecRoundTrip(t *testing.T) {
	input := testRun("run-1", "2026-08-23T10:00:00Z")

	payload, err := EncodeRun(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeRun(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(input, output) {
		t.Fatalf("round trip mismatch: %+v vs %+v", input, output)
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	run := testRun("run-1", "2026-08-23T10:00:00Z")
	run.SchemaVersion = CurrentSchemaVersion + 1

	payload, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}

	best := model.BestGenomeRecord{RunID: "run-1"}
	payload, err = EncodeBestGenome(best)
	if err != nil {
		t.Fatalf("encode best: %v", err)
	}
	if _, err := DecodeBestGenome(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch for unstamped best genome, got %v", err)
	}
}

func TestHistoryCodecRoundTrip(t *testing.T) {
	input := [][]float64{{1, 2, 3}, {0.5, 1.5, 2.5}}
	payload, err := EncodeHistory(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeHistory(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(input, output) {
		t.Fatalf("round trip mismatch: %v vs %v", input, output)
	}
}
