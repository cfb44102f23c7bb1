// Package instance reads knapsack instances from disk.
//
// Two layouts are understood. The text layout starts with the item count and
// the capacity, followed by one "profit weight" pair per item, all separated
// by whitespace:
//
//	10 20
//	3 2
//	4 3
//	...
//
// The structured layout is YAML or JSON and is selected by the .yaml, .yml or
// .json extension:
//
//	capacity: 20
//	items:
//	- profit: 3
//	  weight: 2
package instance

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/yaml"

	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

// Format is the on-disk layout of an instance.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// FormatFor picks the layout from the file extension. Anything that is not
// YAML or JSON is read as text.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML
	default:
		return FormatText
	}
}

// File is an instance loaded from disk. It implements framework.Problem.
type File struct {
	name    string
	catalog framework.Catalog
}

var _ framework.Problem = &File{}

func (f *File) Name() string {
	return f.name
}

func (f *File) Catalog() framework.Catalog {
	return f.catalog
}

// Load reads and validates the instance at path.
func Load(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening instance: %w", err)
	}
	defer r.Close()

	return Parse(r, filepath.Base(path), FormatFor(path))
}

// Parse reads an instance in the given format and validates it.
func Parse(r io.Reader, name string, format Format) (*File, error) {
	var (
		catalog framework.Catalog
		err     error
	)
	switch format {
	case FormatText:
		catalog, err = ParseText(r)
	case FormatYAML:
		catalog, err = ParseYAML(r)
	default:
		err = fmt.Errorf("%w: unknown instance format %q", framework.ErrInvalidConfiguration, format)
	}
	if err != nil {
		return nil, fmt.Errorf("instance %s: %w", name, err)
	}

	if errs := catalog.Validate(field.NewPath("instance")); len(errs) > 0 {
		return nil, fmt.Errorf("instance %s: %w: %w", name, framework.ErrInvalidConfiguration, errs.ToAggregate())
	}
	return &File{name: name, catalog: catalog}, nil
}

// ParseText reads the whitespace separated text layout. Tokens after the last
// item are ignored.
func ParseText(r io.Reader) (framework.Catalog, error) {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("%w: unexpected end of input reading %s", framework.ErrInvalidConfiguration, what)
		}
		v, err := strconv.Atoi(s.Text())
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %q is not an integer", framework.ErrInvalidConfiguration, what, s.Text())
		}
		return v, nil
	}

	count, err := next("item count")
	if err != nil {
		return framework.Catalog{}, err
	}
	capacity, err := next("capacity")
	if err != nil {
		return framework.Catalog{}, err
	}
	switch {
	case count > framework.MaxItems:
		return framework.Catalog{}, fmt.Errorf("%w: %d items exceed the limit of %d", framework.ErrResourceExhausted, count, framework.MaxItems)
	case count < 0:
		return framework.Catalog{}, fmt.Errorf("%w: negative item count %d", framework.ErrInvalidConfiguration, count)
	}

	items := make([]framework.Item, count)
	for i := range items {
		if items[i].Profit, err = next(fmt.Sprintf("profit of item %d", i)); err != nil {
			return framework.Catalog{}, err
		}
		if items[i].Weight, err = next(fmt.Sprintf("weight of item %d", i)); err != nil {
			return framework.Catalog{}, err
		}
	}
	return framework.Catalog{Items: items, Capacity: capacity}, nil
}

// ParseYAML reads the structured layout. JSON is accepted as well. Unknown
// fields are rejected.
func ParseYAML(r io.Reader) (framework.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return framework.Catalog{}, err
	}

	var catalog framework.Catalog
	if err := yaml.UnmarshalStrict(data, &catalog); err != nil {
		return framework.Catalog{}, fmt.Errorf("%w: %w", framework.ErrInvalidConfiguration, err)
	}
	if len(catalog.Items) > framework.MaxItems {
		return framework.Catalog{}, fmt.Errorf("%w: %d items exceed the limit of %d", framework.ErrResourceExhausted, len(catalog.Items), framework.MaxItems)
	}
	return catalog, nil
}

// WriteText writes c in the text layout.
func WriteText(w io.Writer, c framework.Catalog) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(c.Items), c.Capacity)
	for _, it := range c.Items {
		fmt.Fprintf(bw, "%d %d\n", it.Profit, it.Weight)
	}
	return bw.Flush()
}
