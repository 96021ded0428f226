// Package dataset loads the columnar JSON files the exporter produces: one
// object with a "timestamps" column of date strings and any number of
// numeric columns, null marking a missing reading. All columns of a file
// have equal length and share index alignment.
package dataset

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ansel1/merry"
	"github.com/maruel/natural"
	"github.com/valyala/fastjson"

	"github.com/go-graphite/chartkit/chart"
)

var (
	ErrNotFound     = merry.New("dataset not found")
	ErrMalformed    = merry.New("malformed dataset")
	ErrBadTimestamp = merry.New("unparsable timestamp")
	ErrNoColumn     = merry.New("no such column")
)

var nan = math.NaN()

// timestampFormats are tried in order against every timestamps entry.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
	"2006-01",
}

// Dataset is one loaded file. Columns preserves the file's column order;
// Values is keyed by column name with NaN for nulls.
type Dataset struct {
	Name       string
	Timestamps []time.Time
	Columns    []string
	Values     map[string][]float64
}

var parserPool fastjson.ParserPool

// Load reads and parses one columnar JSON file.
func Load(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound.Here().WithValue("path", path)
		}
		return nil, merry.Wrap(err).WithValue("path", path)
	}

	parser := parserPool.Get()
	defer parserPool.Put(parser)

	v, err := parser.ParseBytes(b)
	if err != nil {
		return nil, ErrMalformed.Here().WithCause(err).WithValue("path", path)
	}
	obj, err := v.Object()
	if err != nil {
		return nil, ErrMalformed.Here().WithCause(err).WithValue("path", path)
	}

	d := &Dataset{
		Name:   datasetName(path),
		Values: map[string][]float64{},
	}
	var visitErr error
	obj.Visit(func(key []byte, val *fastjson.Value) {
		if visitErr != nil {
			return
		}
		name := string(key)
		if name == "timestamps" {
			d.Timestamps, visitErr = parseTimestamps(val)
			return
		}
		column, err := parseColumn(val)
		if err != nil {
			visitErr = merry.Wrap(err).WithValue("column", name)
			return
		}
		d.Columns = append(d.Columns, name)
		d.Values[name] = column
	})
	if visitErr != nil {
		return nil, merry.Wrap(visitErr).WithValue("path", path)
	}
	if len(d.Timestamps) == 0 {
		return nil, ErrMalformed.Here().WithMessage("no timestamps column").WithValue("path", path)
	}
	for _, name := range d.Columns {
		if len(d.Values[name]) != len(d.Timestamps) {
			return nil, ErrMalformed.Here().
				WithMessagef("column %q has %d rows, timestamps has %d", name, len(d.Values[name]), len(d.Timestamps)).
				WithValue("path", path)
		}
	}
	return d, nil
}

func datasetName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func parseTimestamps(val *fastjson.Value) ([]time.Time, error) {
	arr, err := val.Array()
	if err != nil {
		return nil, ErrMalformed.Here().WithCause(err)
	}
	ts := make([]time.Time, 0, len(arr))
	for _, item := range arr {
		switch item.Type() {
		case fastjson.TypeString:
			b, _ := item.StringBytes()
			at, err := parseTime(string(b))
			if err != nil {
				return nil, err
			}
			ts = append(ts, at)
		case fastjson.TypeNumber:
			epoch, _ := item.Int64()
			ts = append(ts, time.Unix(epoch, 0).UTC())
		default:
			return nil, ErrBadTimestamp.Here().WithValue("value", item.String())
		}
	}
	return ts, nil
}

func parseTime(s string) (time.Time, error) {
	for _, format := range timestampFormats {
		if at, err := time.Parse(format, s); err == nil {
			return at, nil
		}
	}
	return time.Time{}, ErrBadTimestamp.Here().WithValue("value", s)
}

func parseColumn(val *fastjson.Value) ([]float64, error) {
	arr, err := val.Array()
	if err != nil {
		return nil, ErrMalformed.Here().WithCause(err)
	}
	column := make([]float64, 0, len(arr))
	for _, item := range arr {
		switch item.Type() {
		case fastjson.TypeNumber:
			f, _ := item.Float64()
			column = append(column, f)
		case fastjson.TypeNull:
			column = append(column, nan)
		default:
			return nil, ErrMalformed.Here().WithMessagef("non-numeric value %s", item.String())
		}
	}
	return column, nil
}

// List returns the dataset names (file names without extension) found in
// dir, in natural order so profiles_2 sorts before profiles_10.
func List(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, merry.Wrap(err).WithValue("dir", dir)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, datasetName(m))
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}

// Column returns one column's values.
func (d *Dataset) Column(name string) ([]float64, error) {
	column, ok := d.Values[name]
	if !ok {
		return nil, ErrNoColumn.Here().WithValue("column", name).WithValue("dataset", d.Name)
	}
	return column, nil
}

// Slice returns a copy of the dataset trimmed to rows within [from, until]
// epoch seconds, inclusive. Zero bounds leave that side open.
func (d *Dataset) Slice(from, until int64) *Dataset {
	lo, hi := 0, len(d.Timestamps)
	if from > 0 {
		lo = sort.Search(len(d.Timestamps), func(i int) bool {
			return d.Timestamps[i].Unix() >= from
		})
	}
	if until > 0 {
		hi = sort.Search(len(d.Timestamps), func(i int) bool {
			return d.Timestamps[i].Unix() > until
		})
	}
	if lo > hi {
		lo = hi
	}

	out := &Dataset{
		Name:       d.Name,
		Timestamps: d.Timestamps[lo:hi],
		Columns:    d.Columns,
		Values:     make(map[string][]float64, len(d.Values)),
	}
	for name, column := range d.Values {
		out.Values[name] = column[lo:hi]
	}
	return out
}

// Series builds chart series for the requested columns, assigning colors
// from the palette in order.
func (d *Dataset) Series(columns []string, variant chart.Variant, palette []string) ([]*chart.Series, error) {
	series := make([]*chart.Series, 0, len(columns))
	for i, name := range columns {
		values, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		color := ""
		if len(palette) > 0 {
			color = palette[i%len(palette)]
		}
		series = append(series, &chart.Series{
			Name:    name,
			Color:   color,
			Variant: variant,
			Values:  values,
		})
	}
	return series, nil
}
