package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/cramkit/internal/store"
)

// Document is the content of one catalog file before it is indexed.
// TopicWeights holds only the weights the file sets explicitly.
type Document struct {
	Items        []store.LearningItem
	TopicWeights []store.TopicWeight
}

// Catalog indexes the document, rejecting duplicate or empty ids.
func (d *Document) Catalog() (*Catalog, error) {
	return New(d.Items, d.TopicWeights)
}

func (d *Document) validate() error {
	_, err := d.Catalog()
	return err
}

// LoadOption configures LoadFile.
type LoadOption func(*loadOptions)

type loadOptions struct {
	sheet string
}

// WithSheet selects the worksheet read from an XLSX file.
// The first sheet is used when unset.
func WithSheet(name string) LoadOption {
	return func(o *loadOptions) { o.sheet = name }
}

// LoadFile parses a catalog file. The format is chosen by extension:
// .json, .csv, .xlsx.
func LoadFile(path string, opts ...LoadOption) (*Document, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".csv", ".xlsx", ".xlsm":
	default:
		return nil, store.InvalidInput("path", "unsupported catalog format %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	switch ext {
	case ".json":
		return ParseJSON(f)
	case ".csv":
		return ParseCSV(f)
	default:
		return ParseXLSX(f, o.sheet)
	}
}
