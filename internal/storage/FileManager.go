package storage

import (
	"errors"
	"fmt"
	"os"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/services"
	"welcomer/internal/storage/interfaces"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

var ErrSnapshotVersion = errors.New("unsupported snapshot version")

type FileManager struct {
	profiles    *services.ProfileService
	recognition *services.RecognitionService
	compressor  interfaces.CompressorInterface
	clock       providers.Clock
	logger      providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, profiles *services.ProfileService,
	recognition *services.RecognitionService, clock providers.Clock, logger providers.Logger) *FileManager {
	return &FileManager{
		profiles:    profiles,
		recognition: recognition,
		compressor:  compressor,
		clock:       clock,
		logger:      logger,
	}
}

// Snapshot captures profiles and recognition state. It must run where no
// connection event can interleave, i.e. on the tick goroutine.
func (f *FileManager) Snapshot() (*models.Snapshot, error) {
	rec, err := f.recognition.Snapshot()
	if err != nil {
		return nil, err
	}
	profiles, unique := f.profiles.Store().Snapshot()

	snap := &models.Snapshot{
		Version:     models.SnapshotVersion,
		SavedAt:     f.clock.Now(),
		UniqueTotal: unique,
		Profiles:    make(map[string]models.UserProfile, len(profiles)),
		Recognition: rec,
	}
	for id, p := range profiles {
		snap.Profiles[id.String()] = p
	}
	return snap, nil
}

func (f *FileManager) SaveToFile(fileName string) error {
	snap, err := f.Snapshot()
	if err != nil {
		return err
	}
	return f.WriteSnapshot(fileName, snap)
}

// WriteSnapshot encodes snap and replaces fileName through a temporary file.
func (f *FileManager) WriteSnapshot(fileName string, snap *models.Snapshot) error {
	jsonData, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores state saved by SaveToFile. A missing file is not an
// error: the process starts empty.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snap models.Snapshot
	if err := json.Unmarshal(decompressedData, &snap); err != nil {
		return err
	}
	switch {
	case snap.Version > models.SnapshotVersion:
		return fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	case snap.Version == 0:
		f.logger.Warnf(providers.TypeStorage, "Snapshot %s carries no version, reading it as v%d", fileName, models.SnapshotVersion)
	}

	f.Restore(&snap)
	return nil
}

// Restore replaces in-memory state with snap. Malformed entries are skipped.
func (f *FileManager) Restore(snap *models.Snapshot) {
	profiles := make(map[uuid.UUID]models.UserProfile, len(snap.Profiles))
	skipped := 0
	for key, p := range snap.Profiles {
		id, err := uuid.Parse(key)
		if err != nil {
			skipped++
			continue
		}
		profiles[id] = p
	}
	f.profiles.Store().Restore(profiles, snap.UniqueTotal)
	skipped += f.recognition.Restore(snap.Recognition)

	if skipped > 0 {
		f.logger.Warnf(providers.TypeStorage, "Skipped %d malformed snapshot entries", skipped)
	}
	f.logger.Infof(providers.TypeStorage, "Restored %d profiles saved at %s", len(profiles), snap.SavedAt.Format("2006-01-02 15:04:05"))
}
