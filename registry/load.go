package registry

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var log = commonlog.GetLogger("marksense.registry")

// AttributeSource is one attrs XML file and the namespace its definitions
// belong to.
type AttributeSource struct {
	Path      string `yaml:"path" validate:"required"`
	Namespace string `yaml:"namespace" validate:"required"`
}

// Source lists the files a registry is loaded from.
type Source struct {
	Types      string
	Attributes []AttributeSource
}

// Files returns every path in s, types file first.
func (s Source) Files() []string {
	var files []string
	if s.Types != "" {
		files = append(files, s.Types)
	}
	for _, a := range s.Attributes {
		files = append(files, a.Path)
	}
	return files
}

type typesFile struct {
	Types []*TypeEntry `yaml:"types"`
}

// LoadTypes reads a YAML tag registry.
func LoadTypes(r io.Reader) ([]*TypeEntry, error) {
	var f typesFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to decode types: %w", err)
	}
	for i, t := range f.Types {
		if t == nil || t.Name == "" {
			return nil, fmt.Errorf("type %d has no name", i)
		}
	}
	return f.Types, nil
}

// Load reads every file in src. Files that fail are skipped and their
// errors combined; the returned registry holds whatever loaded.
func Load(src Source) (*Registry, error) {
	var (
		errs     error
		types    []*TypeEntry
		groups   []*StyleGroup
		fallback []*AttributeDefinition
	)

	if src.Types != "" {
		loaded, err := loadFile(src.Types, LoadTypes)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		types = loaded
	}

	for _, a := range src.Attributes {
		file, err := loadFile(a.Path, func(r io.Reader) (*AttributeFile, error) {
			return LoadAttributes(r, a.Namespace)
		})
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		groups = append(groups, file.Groups...)
		fallback = append(fallback, file.Fallback...)
	}

	reg := New(types, groups, fallback)
	stats := reg.Stats()
	log.Infof("registry loaded: %d types, %d groups, %d fallback definitions", stats.Types, stats.Groups, stats.Fallback)
	return reg, errs
}

func loadFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("unable to open registry file: %w", err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
