package config

import (
	"fmt"
	"strings"
)

// Sections is a list of sections.
type Sections []*Section

// GoString implements fmt.GoStringer.
func (s Sections) GoString() string {
	var parts []string
	for _, sect := range s {
		parts = append(parts, sect.GoString())
	}
	return strings.Join(parts, ", ")
}

// Section is a git-style config section ("[name]" or "[name \"sub\"]").
type Section struct {
	Name        string
	Options     Options
	Subsections Subsections
}

// GoString implements fmt.GoStringer.
func (s *Section) GoString() string {
	var opts []string
	for _, o := range s.Options {
		opts = append(opts, o.GoString())
	}
	return fmt.Sprintf("&config.Section{Name:%q, Options:%s, Subsections:%s}",
		s.Name, strings.Join(opts, ", "), s.Subsections.GoString())
}

// IsName reports whether name matches this section's name, case-insensitively.
func (s *Section) IsName(name string) bool {
	return strings.EqualFold(s.Name, name)
}

// Subsection returns the subsection with the given (case-sensitive) name,
// creating it if it doesn't exist yet.
func (s *Section) Subsection(name string) *Subsection {
	for _, ss := range s.Subsections {
		if ss.IsName(name) {
			return ss
		}
	}

	ss := &Subsection{Name: name}
	s.Subsections = append(s.Subsections, ss)
	return ss
}

// HasSubsection reports whether a subsection with this name exists.
func (s *Section) HasSubsection(name string) bool {
	for _, ss := range s.Subsections {
		if ss.IsName(name) {
			return true
		}
	}
	return false
}

// RemoveSubsection removes the named subsection, if any.
func (s *Section) RemoveSubsection(name string) *Section {
	result := Subsections{}
	for _, ss := range s.Subsections {
		if !ss.IsName(name) {
			result = append(result, ss)
		}
	}
	s.Subsections = result
	return s
}

// Option returns the last value set for key, or "" if unset.
func (s *Section) Option(key string) string {
	return s.Options.Get(key)
}

// OptionAll returns every value set for key, in file order.
func (s *Section) OptionAll(key string) []string {
	return s.Options.GetAll(key)
}

// HasOption reports whether key has at least one value.
func (s *Section) HasOption(key string) bool {
	return s.Options.Has(key)
}

// AddOption appends a new key/value pair, keeping any earlier ones.
func (s *Section) AddOption(key string, value string) *Section {
	s.Options = s.Options.withAdded(key, value)
	return s
}

// SetOption replaces every existing value of key with the given ones.
func (s *Section) SetOption(key string, values ...string) *Section {
	s.Options = s.Options.withSet(key, values...)
	return s
}

// RemoveOption drops every value of key.
func (s *Section) RemoveOption(key string) *Section {
	s.Options = s.Options.withRemoved(key)
	return s
}

// Subsections is a list of subsections.
type Subsections []*Subsection

// GoString implements fmt.GoStringer.
func (s Subsections) GoString() string {
	var parts []string
	for _, sub := range s {
		parts = append(parts, sub.GoString())
	}
	return strings.Join(parts, ", ")
}

// Subsection is the "sub" part of a "[section \"sub\"]" header.
type Subsection struct {
	Name    string
	Options Options
}

// GoString implements fmt.GoStringer.
func (s *Subsection) GoString() string {
	var opts []string
	for _, o := range s.Options {
		opts = append(opts, o.GoString())
	}
	return fmt.Sprintf("&config.Subsection{Name:%q, Options:%s}", s.Name, strings.Join(opts, ", "))
}

// IsName reports case-sensitive equality, since subsection names are
// case-sensitive in git (unlike section names).
func (s *Subsection) IsName(name string) bool {
	return s.Name == name
}

func (s *Subsection) Option(key string) string          { return s.Options.Get(key) }
func (s *Subsection) OptionAll(key string) []string      { return s.Options.GetAll(key) }
func (s *Subsection) HasOption(key string) bool          { return s.Options.Has(key) }
func (s *Subsection) AddOption(key, value string) *Subsection {
	s.Options = s.Options.withAdded(key, value)
	return s
}
func (s *Subsection) SetOption(key string, values ...string) *Subsection {
	s.Options = s.Options.withSet(key, values...)
	return s
}
func (s *Subsection) RemoveOption(key string) *Subsection {
	s.Options = s.Options.withRemoved(key)
	return s
}

// Option is a single key/value pair.
type Option struct {
	Key   string
	Value string
}

// GoString implements fmt.GoStringer.
func (o *Option) GoString() string {
	return fmt.Sprintf("&config.Option{Key:%q, Value:%q}", o.Key, o.Value)
}

// IsKey reports case-insensitive key equality.
func (o *Option) IsKey(key string) bool {
	return key != "" && strings.EqualFold(o.Key, key)
}

// Options is an ordered list of Option.
type Options []*Option

// Get returns the last value for key, matching git's "last one wins" rule,
// or "" if key was never set.
func (o Options) Get(key string) string {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].IsKey(key) {
			return o[i].Value
		}
	}
	return ""
}

// GetAll returns every value for key in file order, or an empty (non-nil)
// slice if key was never set.
func (o Options) GetAll(key string) []string {
	result := []string{}
	for _, opt := range o {
		if opt.IsKey(key) {
			result = append(result, opt.Value)
		}
	}
	return result
}

// Has reports whether key has at least one value.
func (o Options) Has(key string) bool {
	for _, opt := range o {
		if opt.IsKey(key) {
			return true
		}
	}
	return false
}

func (o Options) withAdded(key, value string) Options {
	return append(o, &Option{Key: key, Value: value})
}

func (o Options) withSet(key string, values ...string) Options {
	result := o.withRemoved(key)
	for _, v := range values {
		result = result.withAdded(key, v)
	}
	return result
}

func (o Options) withRemoved(key string) Options {
	result := Options{}
	for _, opt := range o {
		if !opt.IsKey(key) {
			result = append(result, opt)
		}
	}
	return result
}
