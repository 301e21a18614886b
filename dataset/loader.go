package dataset

import (
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/gocarina/gocsv"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
)

// LoadOptions controls how a data file is split into fields.
type LoadOptions struct {
	Separator rune
	HasHeader bool

	// AllowQuoting enables RFC 4180 quote handling. Quotes are then stripped from the
	// Class token, so the fraud label token must be given without them.
	AllowQuoting bool
}

// DefaultLoadOptions returns comma-separated input with a header row and no quote handling.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Separator: ',', HasHeader: true}
}

// Validate checks the separator.
func (o LoadOptions) Validate() error {
	switch o.Separator {
	case 0, '"', '\r', '\n', utf8.RuneError:
		return errors.NewConfigurationError("separator", "must be a printable character other than a quote", string(o.Separator))
	}
	return nil
}

// Load reads the data file at path.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFoundError(path, err)
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	ds, err := Read(f, opts)
	if err != nil {
		return nil, err
	}
	ds.Source = path

	log.GetLoggerWithName("dataset").Debug("Loaded data file",
		log.OperationKey, log.OperationLoad,
		log.PathKey, path,
		log.SamplesKey, ds.Len())
	return ds, nil
}

// Read decodes records from r.
func Read(r io.Reader, opts LoadOptions) (*Dataset, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	fr := newFieldReader(r, opts)

	var records []Record
	if err := gocsv.UnmarshalCSV(fr, &records); err != nil {
		return nil, fr.translate(err)
	}
	if len(records) != len(fr.lines) {
		return nil, errors.Newf("decoded %d records from %d rows", len(records), len(fr.lines))
	}
	for i := range records {
		records[i].Line = fr.lines[i]
	}
	return &Dataset{Records: records}, nil
}
