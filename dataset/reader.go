package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/YuminosukeSato/fraudtree/pkg/errors"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// fieldReader feeds gocsv with rows of exactly NumColumns fields. It emits the canonical
// header first, in place of the file's header when there is one, so that columns bind
// by position. Empty numeric fields become "NaN".
type fieldReader struct {
	opts LoadOptions

	scanner *bufio.Scanner // raw splitting
	quoted  *csv.Reader    // RFC 4180 parsing when AllowQuoting is set
	lineNo  int

	headerDone bool
	lastLine   int
	lines      []int // source line of each data row returned so far
}

func newFieldReader(r io.Reader, opts LoadOptions) *fieldReader {
	f := &fieldReader{opts: opts}
	if opts.AllowQuoting {
		f.quoted = csv.NewReader(r)
		f.quoted.Comma = opts.Separator
		f.quoted.FieldsPerRecord = -1
	} else {
		f.scanner = bufio.NewScanner(r)
		f.scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	}
	return f
}

// next returns the fields and line number of the next non-empty row, or io.EOF.
func (f *fieldReader) next() ([]string, int, error) {
	if f.quoted != nil {
		fields, err := f.quoted.Read()
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) && pe.Err != nil {
				return nil, 0, errors.NewDataFormatError(pe.Line, "", pe.Err.Error())
			}
			return nil, 0, err
		}
		line, _ := f.quoted.FieldPos(0)
		if line == 1 && len(fields) > 0 {
			fields[0] = strings.TrimPrefix(fields[0], "\ufeff")
		}
		return fields, line, nil
	}

	for f.scanner.Scan() {
		f.lineNo++
		text := f.scanner.Text()
		if f.lineNo == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" {
			continue
		}
		return strings.Split(text, string(f.opts.Separator)), f.lineNo, nil
	}
	if err := f.scanner.Err(); err != nil {
		return nil, 0, errors.Wrapf(err, "reading line %d", f.lineNo+1)
	}
	return nil, 0, io.EOF
}

func (f *fieldReader) checkWidth(fields []string, line int) error {
	if len(fields) != NumColumns {
		return errors.NewDataFormatError(line, "",
			fmt.Sprintf("expected %d columns, found %d", NumColumns, len(fields)))
	}
	return nil
}

// Read implements gocsv.CSVReader.
func (f *fieldReader) Read() ([]string, error) {
	if !f.headerDone {
		f.headerDone = true
		if f.opts.HasHeader {
			fields, line, err := f.next()
			if err == io.EOF {
				return nil, errors.NewDataFormatError(1, "", "no records")
			}
			if err != nil {
				return nil, err
			}
			if err := f.checkWidth(fields, line); err != nil {
				return nil, err
			}
			f.lastLine = line
		}
		return ColumnNames(), nil
	}

	fields, line, err := f.next()
	if err == io.EOF {
		if len(f.lines) == 0 {
			return nil, errors.NewDataFormatError(f.lastLine+1, "", "no records")
		}
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	if err := f.checkWidth(fields, line); err != nil {
		return nil, err
	}
	for i := 0; i < NumColumns-1; i++ {
		if strings.TrimSpace(fields[i]) == "" {
			fields[i] = "NaN"
		}
	}
	f.lastLine = line
	f.lines = append(f.lines, line)
	return fields, nil
}

// ReadAll implements gocsv.CSVReader.
func (f *fieldReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := f.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// translate maps a decoding error to a DataFormatError naming the source line and column.
func (f *fieldReader) translate(err error) error {
	var dfe *errors.DataFormatError
	if errors.As(err, &dfe) {
		return err
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		// gocsv counts the header as line 1 of its input.
		row := pe.Line - 2
		line := 0
		if row >= 0 && row < len(f.lines) {
			line = f.lines[row]
		}
		column := ""
		if names := ColumnNames(); pe.Column >= 1 && pe.Column <= len(names) {
			column = names[pe.Column-1]
		}
		reason := "invalid value"
		if pe.Err != nil {
			reason = pe.Err.Error()
		}
		return errors.NewDataFormatError(line, column, reason)
	}
	return errors.Wrap(err, "decoding records")
}
