package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/cpisim/cpisim-backend/internal/domain"
)

// record is the wire form of one baseline entry. All fields arrive as
// strings; HHI is carried by the file but not by the merged series.
type record struct {
	Date string `json:"date"`
	HHI  string `json:"HHI"`
	CPI  string `json:"CPI"`
}

// Loader reads the static historical CPI resource consumed once at
// session start.
type Loader struct {
	path   string
	logger *zap.Logger
}

// NewLoader creates a new Loader instance
func NewLoader(path string, logger *zap.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Load reads and converts the baseline file into raw records: the date
// key is the record's date field as given, the value is the parsed
// CPI. Entries whose CPI does not parse are skipped with a warning
// rather than failing the load.
func (l *Loader) Load() ([]domain.RawRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading baseline file: %w", err)
	}
	return l.parse(data)
}

func (l *Loader) parse(data []byte) ([]domain.RawRecord, error) {
	var entries []record
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding baseline file: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(entries))
	for _, entry := range entries {
		value, err := strconv.ParseFloat(entry.CPI, 64)
		if err != nil {
			l.logger.Warn("skipping baseline entry with unparseable CPI",
				zap.String("date", entry.Date),
				zap.String("cpi", entry.CPI))
			continue
		}
		records = append(records, domain.RawRecord{
			DateKey: entry.Date,
			Value:   value,
		})
	}

	return records, nil
}
