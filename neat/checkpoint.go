package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
)

// PopulationSaveData holds the parts of a Population needed to resume a run.
// The Config is not saved; it is reloaded from the configuration file.
// The random source is not saved either, so a resumed run is not bit-identical.
type PopulationSaveData struct {
	RunID        string
	Individuals  []*Individual
	Best         *Individual
	Champion     *Individual
	Generation   int
	NextGenomeID int
}

// SaveCheckpoint saves the current state of the Population to a gzip-compressed file.
func (p *Population) SaveCheckpoint(filePath string) error {
	saveData := PopulationSaveData{
		RunID:        p.RunID,
		Individuals:  p.Individuals,
		Best:         p.Best,
		Champion:     p.Champion,
		Generation:   p.Generation,
		NextGenomeID: p.Indexer.Peek(),
	}
	if err := writeGob(filePath, saveData); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	p.Logger.Debug("checkpoint saved", slog.String("path", filePath), slog.Int("generation", p.Generation))
	return nil
}

// LoadCheckpoint loads a Population state from a checkpoint file.
// It requires the configuration file path to reconstruct the Config object.
func LoadCheckpoint(checkpointPath string, configPath string, rng *rand.Rand) (*Population, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s' for checkpoint: %w", configPath, err)
	}

	var saveData PopulationSaveData
	if err := readGob(checkpointPath, &saveData); err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	for _, ind := range saveData.Individuals {
		if err := ind.Genome.Validate(); err != nil {
			return nil, fmt.Errorf("checkpoint '%s': %w", checkpointPath, err)
		}
	}

	p, err := NewPopulation(config, rng)
	if err != nil {
		return nil, err
	}
	p.RunID = saveData.RunID
	p.Individuals = saveData.Individuals
	p.Best = saveData.Best
	p.Champion = saveData.Champion
	p.Generation = saveData.Generation
	p.Indexer = NewGenomeIndexer(saveData.NextGenomeID)

	p.Logger.Debug("checkpoint loaded", slog.String("path", checkpointPath), slog.Int("generation", p.Generation))
	return p, nil
}

// SaveIndividual writes a single individual to a gzip-compressed file.
func SaveIndividual(ind *Individual, filePath string) error {
	if err := writeGob(filePath, ind); err != nil {
		return fmt.Errorf("failed to save individual %d: %w", ind.Genome.ID, err)
	}
	return nil
}

// LoadIndividual reads an individual written by SaveIndividual.
func LoadIndividual(filePath string) (*Individual, error) {
	ind := &Individual{}
	if err := readGob(filePath, ind); err != nil {
		return nil, fmt.Errorf("failed to load individual: %w", err)
	}
	if ind.Genome == nil {
		return nil, fmt.Errorf("failed to load individual: '%s' holds no genome", filePath)
	}
	if err := ind.Genome.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load individual: %w", err)
	}
	return ind, nil
}

// SaveGenome writes a single genome to a gzip-compressed file.
func SaveGenome(g *Genome, filePath string) error {
	if err := writeGob(filePath, g); err != nil {
		return fmt.Errorf("failed to save genome %d: %w", g.ID, err)
	}
	return nil
}

// LoadGenome reads a genome written by SaveGenome.
func LoadGenome(filePath string) (*Genome, error) {
	g := &Genome{}
	if err := readGob(filePath, g); err != nil {
		return nil, fmt.Errorf("failed to load genome: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load genome: %w", err)
	}
	return g, nil
}

func writeGob(filePath string, v any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	if err := gob.NewEncoder(gzWriter).Encode(v); err != nil {
		return fmt.Errorf("failed to encode '%s': %w", filePath, err)
	}
	// Close flushes the gzip footer; its error matters.
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush '%s': %w", filePath, err)
	}
	return file.Sync()
}

func readGob(filePath string, v any) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader for '%s': %w", filePath, err)
	}
	defer gzReader.Close()

	if err := gob.NewDecoder(gzReader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode '%s': %w", filePath, err)
	}
	return nil
}
