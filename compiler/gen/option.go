package gen

import (
	"errors"
	"runtime"
	"strings"
)

// Config holds the global code generation settings.
type Config struct {
	// Author is written to the __author__ attribute of every module.
	Author string
	// Header is an optional comment placed at the top of each module.
	Header string
	// Storage selects the backend dialect used for type imports.
	Storage *Storage
	// Target is the directory the writer puts generated modules in.
	Target string
	// Workers bounds the number of models written in parallel.
	Workers int
}

// Option configures code generation.
type Option func(*Config) error

// WithAuthor sets the module author.
func WithAuthor(author string) Option {
	return func(c *Config) error {
		if strings.ContainsAny(author, "\r\n") {
			return NewConfigError("Author", author, "author cannot span lines")
		}
		c.Author = author
		return nil
	}
}

// WithHeader sets the module header comment. Lines without a leading "#"
// are turned into comments.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithStorage sets the storage backend by name.
// Supported backends: "postgres".
func WithStorage(name string) Option {
	return func(c *Config) error {
		s, err := NewStorage(name)
		if err != nil {
			return NewConfigError("Storage", name, err.Error())
		}
		c.Storage = s
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = strings.TrimRight(dir, "/")
		if c.Target == "" {
			c.Target = "/"
		}
		return nil
	}
}

// WithWorkers sets the number of parallel workers. Zero selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options. The storage
// defaults to postgres.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Storage: drivers[0]}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Config) storage() *Storage {
	if c.Storage == nil {
		return drivers[0]
	}
	return c.Storage
}

// header renders the header comment block, ending with a newline.
func (c *Config) header() string {
	if c.Header == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(c.Header, "\n"), "\n") {
		if !strings.HasPrefix(line, "#") {
			line = "# " + line
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
