package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	countriesFile = "countries.json"
	topicsFile    = "topics.json"
)

// FileSource reads the data files from a directory on every call, so edits show up without a
// restart. Missing or malformed files read as empty.
type FileSource struct {
	dir    string
	logger *zerolog.Logger
}

// NewFileSource returns a FileSource over dir.
func NewFileSource(dir string, logger *zerolog.Logger) *FileSource {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FileSource{dir: dir, logger: logger}
}

// Dataset loads countries.json.
func (s *FileSource) Dataset(ctx context.Context) *Dataset {
	path := filepath.Join(s.dir, countriesFile)
	f, err := os.Open(path)
	if err != nil {
		s.logMissing(path, err)
		return &Dataset{}
	}
	defer f.Close()

	ds, err := ParseDataset(f)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("catalog: malformed dataset, serving empty index")
		return &Dataset{}
	}
	return ds
}

// Topics loads topics.json.
func (s *FileSource) Topics(ctx context.Context) []Topic {
	path := filepath.Join(s.dir, topicsFile)
	b, err := os.ReadFile(path)
	if err != nil {
		s.logMissing(path, err)
		return []Topic{}
	}
	topics, err := ParseTopics(b)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("catalog: malformed topics file")
		return []Topic{}
	}
	return topics
}

func (s *FileSource) logMissing(path string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug().Str("path", path).Msg("catalog: data file not found")
		return
	}
	s.logger.Warn().Err(err).Str("path", path).Msg("catalog: cannot read data file")
}

// Topic is one entry of topics.json. Raw is served verbatim.
type Topic struct {
	ID  int
	Raw json.RawMessage
}

// MarshalJSON writes the topic exactly as it appeared in the file.
func (t Topic) MarshalJSON() ([]byte, error) {
	return t.Raw, nil
}

// ParseTopics decodes a JSON array of objects that each carry an integer "id".
// Entries without a usable id are kept with ID 0 and cannot be looked up.
func ParseTopics(b []byte) ([]Topic, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	out := make([]Topic, 0, len(raw))
	for _, r := range raw {
		var head struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(r, &head); err != nil {
			head.ID = 0
		}
		out = append(out, Topic{ID: head.ID, Raw: r})
	}
	return out, nil
}

// FindTopic returns the first topic with the given id.
func FindTopic(topics []Topic, id int) (Topic, bool) {
	for _, t := range topics {
		if t.ID != 0 && t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}
