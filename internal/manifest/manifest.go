package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// NumColumns is the fixed manifest column count: source, target1, target2,
// method, category, type, race, gender, vid, path.
const NumColumns = 10

// Row is one manifest entry. Immutable once loaded; Category and Type
// jointly determine the ground-truth labels.
type Row struct {
	Source   string
	Target1  string
	Target2  string
	Method   string
	Category string
	Type     string
	Race     string
	Gender   string
	Vid      string
	Path     string
}

// MediaDir returns the sample directory relative to the dataset root. The
// leading segment of the manifest path is an archive prefix and is dropped.
func (r Row) MediaDir() string {
	parts := strings.Split(r.Path, "/")
	if len(parts) <= 1 {
		return ""
	}
	return path.Join(parts[1:]...)
}

// VideoPath returns the absolute video file location under root
func (r Row) VideoPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(r.MediaDir()), r.Vid)
}

// AudioPath returns the paired waveform location: same base name, .wav
func (r Row) AudioPath(root string) string {
	video := r.VideoPath(root)
	return strings.TrimSuffix(video, filepath.Ext(video)) + ".wav"
}

// File returns the sample identifier used in batches
func (r Row) File() string {
	return path.Join(r.Path, r.Vid)
}

// Load reads a manifest file. The header row is consumed and columns are
// taken positionally; anything other than exactly 10 columns is a fatal
// configuration error.
func Load(manifestPath string) ([]Row, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, &ConfigError{Path: manifestPath, Message: "failed to open manifest", Cause: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = NumColumns

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ConfigError{Path: manifestPath, Message: "malformed manifest", Cause: err}
	}
	if len(records) == 0 {
		return nil, &ConfigError{Path: manifestPath, Message: "manifest is empty"}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, Row{
			Source:   record[0],
			Target1:  record[1],
			Target2:  record[2],
			Method:   record[3],
			Category: record[4],
			Type:     record[5],
			Race:     record[6],
			Gender:   record[7],
			Vid:      record[8],
			Path:     record[9],
		})
	}
	return rows, nil
}

// ConfigError is a fatal dataset configuration failure; no retry applies
type ConfigError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Path, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
