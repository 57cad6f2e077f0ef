package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/baldhumanity/neat-ff/neat"
)

const CurrentSchemaVersion = 1

var ErrVersionMismatch = errors.New("record version mismatch")

// championRecord is the JSON payload of one archived champion.
type championRecord struct {
	SchemaVersion int              `json:"schema_version"`
	Individual    *neat.Individual `json:"individual"`
}

func EncodeIndividual(ind *neat.Individual) ([]byte, error) {
	return json.Marshal(championRecord{SchemaVersion: CurrentSchemaVersion, Individual: ind})
}

// DecodeIndividual parses a payload written by EncodeIndividual and validates its genome.
func DecodeIndividual(data []byte) (*neat.Individual, error) {
	var record championRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if record.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, record.SchemaVersion, CurrentSchemaVersion)
	}
	if record.Individual == nil || record.Individual.Genome == nil {
		return nil, errors.New("record holds no genome")
	}
	if err := record.Individual.Genome.Validate(); err != nil {
		return nil, err
	}
	return record.Individual, nil
}
