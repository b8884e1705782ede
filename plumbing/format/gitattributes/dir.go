package gitattributes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	format "github.com/go-git/wtsync/plumbing/format/config"
)

const (
	coreSection    = "core"
	attributesfile = "attributesfile"
	gitconfigFile  = ".gitconfig"
	systemFile     = "/etc/gitconfig"
)

func readAttributesFile(fs billy.Filesystem, path []string, name string) ([]MatchAttribute, error) {
	f, err := fs.Open(fs.Join(append(path, name)...))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return ReadAttributes(f, path, true)
}

// LoadGlobalPatterns loads the user-global attributes file named by
// core.attributesfile in ~/.gitconfig.
func LoadGlobalPatterns(fs billy.Filesystem) ([]MatchAttribute, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}

	f, err := fs.Open(fs.Join(home, gitconfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return parseAttributesFromConfig(fs, f, home)
}

// LoadSystemPatterns loads the machine-global attributes file named
// by core.attributesfile in /etc/gitconfig.
func LoadSystemPatterns(fs billy.Filesystem) ([]MatchAttribute, error) {
	f, err := fs.Open(systemFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return parseAttributesFromConfig(fs, f, "")
}

func parseAttributesFromConfig(fs billy.Filesystem, r billy.File, home string) ([]MatchAttribute, error) {
	cfg := format.New()
	d := format.NewDecoder(r)
	if err := d.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding gitconfig: %w", err)
	}

	path := cfg.Section(coreSection).Option(attributesfile)
	if path == "" {
		return nil, nil
	}

	if strings.HasPrefix(path, "~") {
		if home == "" {
			return nil, nil
		}
		path = filepath.Join(home, path[1:])
	}

	return readAttributesFile(fs, nil, path)
}
