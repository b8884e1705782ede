package gitignore

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	format "github.com/go-git/wtsync/plumbing/format/config"
)

const (
	commentPrefix   = "#"
	coreSection     = "core"
	excludesfile    = "excludesfile"
	gitDir          = ".git"
	gitconfigFile   = ".gitconfig"
	systemFile      = "/etc/gitconfig"
	infoExcludeFile = gitDir + "/info/exclude"
)

// readIgnoreFile reads a single ignore-pattern file (if present; a missing
// file is normal and silent, per §4.A) and parses every non-blank,
// non-comment line into a Pattern anchored to path.
func readIgnoreFile(fs billy.Filesystem, path []string, ignoreFile string) (ps []Pattern, err error) {
	f, err := fs.Open(fs.Join(append(path, ignoreFile)...))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	if data, err := io.ReadAll(f); err == nil {
		for _, s := range strings.Split(string(data), "\n") {
			if !strings.HasPrefix(s, commentPrefix) && len(strings.TrimSpace(s)) > 0 {
				ps = append(ps, ParsePattern(s, path))
			}
		}
	} else {
		return nil, err
	}

	return
}

// LoadGlobalPatterns loads the user-global ignore file named by
// core.excludesfile in ~/.gitconfig. Any missing piece (no home dir, no
// gitconfig, no excludesfile entry, no file at that path) yields an empty,
// error-free result.
func LoadGlobalPatterns(fs billy.Filesystem) (ps []Pattern, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}

	f, err := fs.Open(fs.Join(home, gitconfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return
	}
	defer f.Close()

	return parseExcludesFromConfig(fs, f, home)
}

// LoadSystemPatterns loads the machine-global ignore file named by
// core.excludesfile in /etc/gitconfig.
func LoadSystemPatterns(fs billy.Filesystem) (ps []Pattern, err error) {
	f, err := fs.Open(systemFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return
	}
	defer f.Close()

	return parseExcludesFromConfig(fs, f, "")
}

func parseExcludesFromConfig(fs billy.Filesystem, r io.Reader, home string) ([]Pattern, error) {
	cfg := format.New()
	d := format.NewDecoder(r)
	if err := d.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding gitconfig: %w", err)
	}

	path := cfg.Section(coreSection).Option(excludesfile)
	if path == "" {
		return nil, nil
	}

	if strings.HasPrefix(path, "~") {
		dir, rest := home, path[1:]
		if rest != "" && rest[0] != '/' {
			name, tail, _ := strings.Cut(rest, "/")
			u, err := user.Lookup(name)
			if err != nil {
				return nil, nil
			}
			dir, rest = u.HomeDir, tail
		}
		if dir == "" {
			return nil, nil
		}
		path = filepath.Join(dir, rest)
	}

	return readIgnoreFile(fs, nil, path)
}
