package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/storage/interfaces"
	"welcomer/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const coldSuffix = ".cold.zst"

// ColdFile is the on-disk format of one shard of archived users.
type ColdFile struct {
	Entries map[string]*models.ArchivedRecognition `json:"entries"`
}

// ColdStorage archives recognition state of swept users on disk, sharded by
// the first hex digit of the user id. Evictions are buffered until Flush.
// Implements models.ArchiveInterface.
type ColdStorage struct {
	mu         sync.RWMutex
	dir        string
	index      map[string]map[string]struct{}                    // shard → user ids
	pending    map[string]map[string]*models.ArchivedRecognition // shard → unflushed entries
	restored   map[string]map[string]struct{}                    // shard → ids to lazy-delete
	loaded     map[string]*ColdFile                              // shard → cached cold file
	coldTTL    time.Duration
	compressor interfaces.CompressorInterface
	clock      providers.Clock
	logger     providers.Logger
}

func NewColdStorage(conf *structures.Config, compressor interfaces.CompressorInterface, clock providers.Clock, logger providers.Logger) *ColdStorage {
	return &ColdStorage{
		dir:        conf.Recognition.Retention.ColdDir,
		index:      make(map[string]map[string]struct{}),
		pending:    make(map[string]map[string]*models.ArchivedRecognition),
		restored:   make(map[string]map[string]struct{}),
		loaded:     make(map[string]*ColdFile),
		coldTTL:    conf.Recognition.Retention.ColdTTL,
		compressor: compressor,
		clock:      clock,
		logger:     logger,
	}
}

func (cs *ColdStorage) Enabled() bool {
	return cs != nil && cs.dir != ""
}

func shardOf(id uuid.UUID) string {
	return id.String()[:1]
}

// Has checks if a user is archived (on disk or pending).
func (cs *ColdStorage) Has(id uuid.UUID) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if ids, ok := cs.index[shardOf(id)]; ok {
		_, exists := ids[id.String()]
		return exists
	}
	return false
}

// Len is the number of archived users.
func (cs *ColdStorage) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	n := 0
	for _, ids := range cs.index {
		n += len(ids)
	}
	return n
}

// Evict buffers the state of a user for the next flush. No disk I/O.
func (cs *ColdStorage) Evict(id uuid.UUID, entry models.ArchivedRecognition) {
	if entry.EvictedAt.IsZero() {
		entry.EvictedAt = cs.clock.Now()
	}
	shard, key := shardOf(id), id.String()

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.pending[shard] == nil {
		cs.pending[shard] = make(map[string]*models.ArchivedRecognition)
	}
	cs.pending[shard][key] = &entry

	if cs.index[shard] == nil {
		cs.index[shard] = make(map[string]struct{})
	}
	cs.index[shard][key] = struct{}{}

	// a re-evicted user must not be lazily deleted by the next flush
	delete(cs.restored[shard], key)
}

// Restore takes a user out of the archive, from the pending buffer or disk.
func (cs *ColdStorage) Restore(id uuid.UUID) (models.ArchivedRecognition, bool, error) {
	shard, key := shardOf(id), id.String()

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if entries, ok := cs.pending[shard]; ok {
		if entry, ok := entries[key]; ok {
			delete(entries, key)
			if len(entries) == 0 {
				delete(cs.pending, shard)
			}
			// an older copy may already be on disk
			cs.markRestored(shard, key)
			delete(cs.index[shard], key)
			return *entry, true, nil
		}
	}

	coldFile := cs.getOrLoadColdFile(shard)
	if coldFile == nil {
		delete(cs.index[shard], key)
		return models.ArchivedRecognition{}, false, nil
	}

	entry, ok := coldFile.Entries[key]
	if !ok {
		delete(cs.index[shard], key)
		return models.ArchivedRecognition{}, false, nil
	}

	cs.markRestored(shard, key)
	delete(cs.index[shard], key)
	return *entry, true, nil
}

func (cs *ColdStorage) markRestored(shard, key string) {
	if cs.restored[shard] == nil {
		cs.restored[shard] = make(map[string]struct{})
	}
	cs.restored[shard][key] = struct{}{}
}

// Flush writes pending entries, applies lazy deletes and drops entries older
// than the cold TTL. It is the only method that writes to disk.
func (cs *ColdStorage) Flush() error {
	if !cs.Enabled() {
		return nil
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	shards := make(map[string]struct{})
	for sh := range cs.pending {
		shards[sh] = struct{}{}
	}
	for sh := range cs.restored {
		shards[sh] = struct{}{}
	}
	if cs.coldTTL > 0 {
		for sh := range cs.index {
			shards[sh] = struct{}{}
		}
	}

	now := cs.clock.Now()
	for shard := range shards {
		coldFile := cs.getOrLoadColdFile(shard)
		if coldFile == nil {
			coldFile = &ColdFile{Entries: make(map[string]*models.ArchivedRecognition)}
		}

		for key := range cs.restored[shard] {
			delete(coldFile.Entries, key)
		}
		for key, entry := range cs.pending[shard] {
			coldFile.Entries[key] = entry
		}

		if cs.coldTTL > 0 {
			for key, entry := range coldFile.Entries {
				if now.Sub(entry.EvictedAt) > cs.coldTTL {
					delete(coldFile.Entries, key)
					delete(cs.index[shard], key)
				}
			}
		}

		if len(coldFile.Entries) > 0 {
			if err := cs.writeColdFile(shard, coldFile); err != nil {
				return err
			}
			cs.loaded[shard] = coldFile
		} else {
			_ = os.Remove(cs.coldFilePath(shard))
			delete(cs.loaded, shard)
		}

		// commit only after a successful write
		delete(cs.pending, shard)
		delete(cs.restored, shard)
	}
	return nil
}

// RestoreIndex scans the archive directory and indexes the user ids it
// holds. Called once at startup.
func (cs *ColdStorage) RestoreIndex() error {
	if !cs.Enabled() {
		return nil
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := os.MkdirAll(cs.dir, 0755); err != nil {
		return err
	}

	files, err := filepath.Glob(filepath.Join(cs.dir, "*"+coldSuffix))
	if err != nil {
		return err
	}

	for _, file := range files {
		shard := strings.TrimSuffix(filepath.Base(file), coldSuffix)
		coldFile := cs.loadColdFileFromDisk(shard)
		if coldFile == nil {
			continue
		}
		cs.index[shard] = make(map[string]struct{}, len(coldFile.Entries))
		for key := range coldFile.Entries {
			cs.index[shard][key] = struct{}{}
		}
	}
	return nil
}

// getOrLoadColdFile must be called under cs.mu.
func (cs *ColdStorage) getOrLoadColdFile(shard string) *ColdFile {
	if cf, ok := cs.loaded[shard]; ok {
		return cf
	}
	cf := cs.loadColdFileFromDisk(shard)
	if cf != nil {
		cs.loaded[shard] = cf
	}
	return cf
}

func (cs *ColdStorage) loadColdFileFromDisk(shard string) *ColdFile {
	path := cs.coldFilePath(shard)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			cs.logger.Errorf(providers.TypeStorage, "Failed to read cold file %s: %s", path, err)
		}
		return nil
	}

	decompressed, err := cs.compressor.Decompress(data)
	if err != nil {
		cs.logger.Errorf(providers.TypeStorage, "Failed to decompress cold file %s: %s", path, err)
		return nil
	}

	var cf ColdFile
	if err := json.Unmarshal(decompressed, &cf); err != nil {
		cs.logger.Errorf(providers.TypeStorage, "Failed to parse cold file %s: %s", path, err)
		return nil
	}

	if cf.Entries == nil {
		cf.Entries = make(map[string]*models.ArchivedRecognition)
	}
	return &cf
}

func (cs *ColdStorage) writeColdFile(shard string, cf *ColdFile) error {
	jsonData, err := json.Marshal(cf)
	if err != nil {
		return err
	}

	compressed, err := cs.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	path := cs.coldFilePath(shard)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, path)
}

func (cs *ColdStorage) coldFilePath(shard string) string {
	return filepath.Join(cs.dir, shard+coldSuffix)
}
