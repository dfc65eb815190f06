// Package config loads default settings from an INI file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// FileName is the name looked up in the working directory and the user
// config directory.
const FileName = "augedit.ini"

// File holds the settings an INI file may provide. Zero values mean unset.
type File struct {
	Path         string
	Input        string
	Output       string
	Target       string
	Sign         string
	Catalog      string
	Canonicalize *bool
	Jobs         int
}

// SearchPaths returns the candidate locations in lookup order. explicit,
// when set, is the only candidate.
func SearchPaths(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "augedit", FileName))
	}
	return paths
}

// Find loads the first existing file from SearchPaths. A missing file yields
// an empty File, except when explicit names one.
func Find(explicit string) (File, error) {
	for _, p := range SearchPaths(explicit) {
		if _, err := os.Stat(p); err != nil {
			if explicit != "" {
				return File{}, fmt.Errorf("config file %s: %w", p, err)
			}
			continue
		}
		return Load(p)
	}
	return File{}, nil
}

// Load reads the default section of the INI file at path.
func Load(path string) (File, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	sec := cfg.Section("")
	f := File{
		Path:    path,
		Input:   sec.Key("input").String(),
		Output:  sec.Key("output").String(),
		Target:  sec.Key("target").String(),
		Sign:    sec.Key("sign").String(),
		Catalog: sec.Key("catalog").String(),
	}
	if sec.HasKey("canonicalize") {
		v, err := sec.Key("canonicalize").Bool()
		if err != nil {
			return File{}, fmt.Errorf("config %s: canonicalize: %w", path, err)
		}
		f.Canonicalize = &v
	}
	if sec.HasKey("jobs") {
		v, err := sec.Key("jobs").Int()
		if err != nil {
			return File{}, fmt.Errorf("config %s: jobs: %w", path, err)
		}
		f.Jobs = v
	}
	return f, nil
}
