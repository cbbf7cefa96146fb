package load

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/syssam/modelgen"
)

// A Parser decodes a definition document. Source names the document in
// error messages and positions.
type Parser func(data []byte, source string) ([]*Schema, error)

// Format describes a supported document format.
type Format struct {
	Name       string
	Extensions []string
	Parse      Parser
}

// formats holds the supported document formats.
var formats = []*Format{
	{
		Name:       "yaml",
		Extensions: []string{".yaml", ".yml", ".json"},
		Parse:      ParseYAML,
	},
	{
		Name:       "msgpack",
		Extensions: []string{".msgpack", ".mp"},
		Parse:      ParseMsgpack,
	},
	{
		Name:       "hcl",
		Extensions: []string{".hcl"},
		Parse:      ParseHCL,
	},
	{
		Name:       "graphql",
		Extensions: []string{".graphql", ".graphqls", ".gql"},
		Parse:      ParseGraphQL,
	},
}

// Formats returns the supported document formats.
func Formats() []*Format {
	return slices.Clone(formats)
}

// FormatFor returns the format registered for the path extension.
func FormatFor(path string) (*Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range formats {
		if slices.Contains(f.Extensions, ext) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", modelgen.ErrUnsupportedFormat, ext)
}

// FormatByName returns the named format.
func FormatByName(name string) (*Format, error) {
	for _, f := range formats {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", modelgen.ErrUnsupportedFormat, name)
}

// LoadFile reads and decodes the definition document at path.
func LoadFile(path string) ([]*Schema, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, modelgen.NewFileError(path, err)
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, modelgen.NewFileError(path, modelgen.ErrFileNotFound)
	case err != nil:
		return nil, modelgen.NewFileError(path, err)
	}
	schemas, err := f.Parse(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return schemas, nil
}
