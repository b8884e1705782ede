// Package config implements the external Config collaborator described in
// §6: a scalar, per-level overlay lookup over the four scopes
// system < global < repo < local, restricted to the handful of keys the
// core actually consults: core.symlinks, core.filemode, core.ignorestat,
// core.trustctime, core.autocrlf, core.eol, core.excludesfile,
// diff.<driver>.binary, diff.<driver>.xfuncname, diff.renames and
// diff.renameLimit. The four-scope overlay itself belongs to
// plumbing/format/config.Merged; this package only adds the typed,
// key-restricted reads the core actually needs on top of it.
package config

import (
	"strconv"

	"dario.cat/mergo"

	fmtconfig "github.com/go-git/wtsync/plumbing/format/config"
)

// AutoCRLF mirrors core.autocrlf's three-valued semantics: false never
// converts line endings, true always converts to CRLF on checkout and
// back to LF on checkin, input converts to LF on checkin only.
type AutoCRLF string

const (
	AutoCRLFFalse AutoCRLF = "false"
	AutoCRLFTrue  AutoCRLF = "true"
	AutoCRLFInput AutoCRLF = "input"
)

// Defaults is the fallback value used for any key none of the four scopes
// set, normally git's own built-in default for that key.
type Defaults struct {
	Symlinks     bool
	Filemode     bool
	Ignorestat   bool
	Trustctime   bool
	Autocrlf     AutoCRLF
	EOL          string
	Excludesfile string
	Renames      bool
	RenameLimit  int
}

// DefaultValues is what the core assumes absent any config file at all.
// Zero fields of a caller-supplied Defaults are filled in from here via
// New, so a caller only has to set the defaults it actually cares about
// overriding (e.g. a repo-level core.excludesfile resolved ahead of time).
var DefaultValues = Defaults{
	Symlinks:    true,
	Filemode:    true,
	Autocrlf:    AutoCRLFFalse,
	EOL:         "native",
	RenameLimit: 400,
}

// Config is the core's external Config collaborator: a read-only scalar
// view over a four-scope Merged config tree.
type Config struct {
	merged   *fmtconfig.Merged
	defaults Defaults
}

// New wraps merged, filling any zero-valued field of defaults in from
// DefaultValues.
func New(merged *fmtconfig.Merged, defaults Defaults) (*Config, error) {
	if err := mergo.Merge(&defaults, DefaultValues); err != nil {
		return nil, err
	}
	return &Config{merged: merged, defaults: defaults}, nil
}

func (c *Config) section(name string) *fmtconfig.MergedSection {
	if c.merged == nil {
		return nil
	}
	return c.merged.Section(name)
}

func sectionOption(s *fmtconfig.MergedSection, key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := s.Option(key)
	return v, v != ""
}

func parseBool(v string, ok bool, def bool) bool {
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func parseInt(v string, ok bool, def int) int {
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Symlinks resolves core.symlinks: whether a symlink entry should be
// checked out as an actual symlink (false means write the link target as
// plain file content instead, for filesystems that can't represent one).
func (c *Config) Symlinks() bool {
	v, ok := sectionOption(c.section("core"), "symlinks")
	return parseBool(v, ok, c.defaults.Symlinks)
}

// Filemode resolves core.filemode: whether the executable bit is part of
// a path's tracked state at all.
func (c *Config) Filemode() bool {
	v, ok := sectionOption(c.section("core"), "filemode")
	return parseBool(v, ok, c.defaults.Filemode)
}

// IgnoreStat resolves core.ignorestat: when true, the racily-clean stat
// shortcut (§4.D) is never trusted and every comparison re-reads content.
func (c *Config) IgnoreStat() bool {
	v, ok := sectionOption(c.section("core"), "ignorestat")
	return parseBool(v, ok, c.defaults.Ignorestat)
}

// TrustCTime resolves core.trustctime.
func (c *Config) TrustCTime() bool {
	v, ok := sectionOption(c.section("core"), "trustctime")
	return parseBool(v, ok, c.defaults.Trustctime)
}

// AutoCRLF resolves core.autocrlf; an unrecognized value falls back to
// the default rather than propagating garbage into the filter pipeline.
func (c *Config) AutoCRLF() AutoCRLF {
	v, ok := sectionOption(c.section("core"), "autocrlf")
	if !ok {
		return c.defaults.Autocrlf
	}
	switch AutoCRLF(v) {
	case AutoCRLFTrue, AutoCRLFFalse, AutoCRLFInput:
		return AutoCRLF(v)
	default:
		return c.defaults.Autocrlf
	}
}

// EOL resolves core.eol.
func (c *Config) EOL() string {
	if v, ok := sectionOption(c.section("core"), "eol"); ok {
		return v
	}
	return c.defaults.EOL
}

// ExcludesFile resolves core.excludesfile: the path to the user-global
// ignore file the attrs resolver loads alongside .gitignore (§4.A).
func (c *Config) ExcludesFile() string {
	if v, ok := sectionOption(c.section("core"), "excludesfile"); ok {
		return v
	}
	return c.defaults.Excludesfile
}

// Renames resolves diff.renames.
func (c *Config) Renames() bool {
	v, ok := sectionOption(c.section("diff"), "renames")
	return parseBool(v, ok, c.defaults.Renames)
}

// RenameLimit resolves diff.renameLimit: the file-count ceiling above
// which rename detection is skipped rather than run at O(n*m).
func (c *Config) RenameLimit() int {
	v, ok := sectionOption(c.section("diff"), "renameLimit")
	return parseInt(v, ok, c.defaults.RenameLimit)
}

// DiffDriver is the subset of a diff.<name>.* subsection the core reads
// when a path's diff gitattribute selects a named driver.
type DiffDriver struct {
	Binary    bool
	Xfuncname string
}

// Driver resolves the diff.<name>.* subsection for the named driver.
func (c *Config) Driver(name string) DiffDriver {
	sec := c.section("diff")
	if sec == nil {
		return DiffDriver{}
	}
	sub := sec.Subsection(name)
	if sub == nil {
		return DiffDriver{}
	}
	v := sub.Option("binary")
	return DiffDriver{
		Binary:    parseBool(v, v != "", false),
		Xfuncname: sub.Option("xfuncname"),
	}
}
