package jsonfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/samber/lo"

	"msgboard/factory"
	"msgboard/pkg/message"
)

// JSONFile keeps the whole message collection in a single JSON array on disk.
// Every operation re-reads the file, so the file stays the single source of
// truth across processes that share it. Mutations run under the write lock
// and are persisted with write-to-temp-then-rename, so two concurrent
// creates always receive distinct ids and a reader never observes a
// partially written file.
type JSONFile struct {
	mu     sync.RWMutex
	path   string
	logger *slog.Logger
}

var _ message.Repository = (*JSONFile)(nil)

// NewJSONFile returns a store backed by the JSON file at path. The file does
// not have to exist yet; it is created on the first mutation.
func NewJSONFile(path string, logger *slog.Logger) *JSONFile {
	return &JSONFile{path: path, logger: logger}
}

// load reads the backing file. A missing or unparsable file degrades to an
// empty collection so the board keeps serving reads.
func (j *JSONFile) load() []factory.Message {
	data, err := os.ReadFile(j.path)
	if err != nil {
		j.logger.Warn("Reading data file failed, treating store as empty", "path", j.path, "error", err)
		return nil
	}
	var msgs []factory.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		j.logger.Warn("Data file is not a JSON message array, treating store as empty", "path", j.path, "error", err)
		return nil
	}
	return msgs
}

// persist writes the full collection to a temporary file in the data file's
// directory and renames it into place. The rename is atomic on POSIX
// filesystems, so a crash mid-write never leaves a corrupt store behind.
func (j *JSONFile) persist(msgs []factory.Message) error {
	if msgs == nil {
		msgs = []factory.Message{}
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(j.path), filepath.Base(j.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

func (j *JSONFile) GetAll() []factory.Message {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.load()
}

func (j *JSONFile) GetAllSorted() []factory.Message {
	msgs := j.GetAll()
	// Posted is fixed-width, so string comparison is chronological.
	sort.Slice(msgs, func(a, b int) bool { return msgs[a].Posted > msgs[b].Posted })
	return msgs
}

func (j *JSONFile) GetByID(id int) (factory.Message, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	msg, found := lo.Find(j.load(), func(m factory.Message) bool { return m.ID == id })
	if !found {
		return factory.Message{}, message.ErrNotFound
	}
	return msg, nil
}

func (j *JSONFile) Create(msg factory.Message) (factory.Message, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	msgs := j.load()
	// MaxBy yields the zero Message for an empty collection, so the first
	// record gets id 1. Deleted ids are never handed out again because the
	// counter only follows the current maximum upward.
	max := lo.MaxBy(msgs, func(a, b factory.Message) bool { return a.ID > b.ID })
	msg.ID = max.ID + 1
	msgs = append(msgs, msg)
	if err := j.persist(msgs); err != nil {
		return factory.Message{}, err
	}
	return msg, nil
}

func (j *JSONFile) Update(msg factory.Message) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	msgs := j.load()
	_, index, found := lo.FindIndexOf(msgs, func(m factory.Message) bool { return m.ID == msg.ID })
	if !found {
		return false, nil
	}
	msgs[index] = msg
	if err := j.persist(msgs); err != nil {
		return false, err
	}
	return true, nil
}

func (j *JSONFile) Delete(id int) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	msgs := j.load()
	kept := lo.Filter(msgs, func(m factory.Message, _ int) bool { return m.ID != id })
	if err := j.persist(kept); err != nil {
		return false, err
	}
	return len(kept) != len(msgs), nil
}
