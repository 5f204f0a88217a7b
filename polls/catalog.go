// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/kumpul/models"
)

var (
	ErrUnknownPollType = errors.New("unknown poll type")
	ErrUnknownOption   = errors.New("unknown option")
)

// Catalog holds the closed, ordered option list of every poll type.
type Catalog struct {
	Location []string `yaml:"location"`
	Date     []string `yaml:"date"`
}

// DefaultCatalog returns the options printed on the invitation.
func DefaultCatalog() Catalog {
	return Catalog{
		Location: []string{
			"Bebek Kaleo Jababeka",
			"Tana Bambu Cibubur",
			"Sudut Kedai Metland",
			"Ayam Taliwang Kotwis",
		},
		Date: []string{
			"7 Maret 2026",
			"8 Maret 2026",
			"14 Maret 2026",
		},
	}
}

// LoadCatalog reads a catalog from a YAML file. Poll types missing from the
// file keep their default options.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	def := DefaultCatalog()
	if len(c.Location) == 0 {
		c.Location = def.Location
	}
	if len(c.Date) == 0 {
		c.Date = def.Date
	}

	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate rejects blank and duplicate option labels.
func (c Catalog) Validate() error {
	for _, pt := range models.PollTypes {
		opts, _ := c.Options(pt)
		seen := make(map[string]bool, len(opts))
		for _, o := range opts {
			if strings.TrimSpace(o) == "" {
				return fmt.Errorf("poll %s: blank option label", pt)
			}
			if seen[o] {
				return fmt.Errorf("poll %s: duplicate option %q", pt, o)
			}
			seen[o] = true
		}
	}
	return nil
}

// ParsePollType converts a path segment into a poll type.
func ParsePollType(s string) (models.PollType, error) {
	switch models.PollType(s) {
	case models.PollLocation, models.PollDate:
		return models.PollType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPollType, s)
}

// Options returns the ordered option labels of a poll type.
func (c Catalog) Options(pt models.PollType) ([]string, bool) {
	switch pt {
	case models.PollLocation:
		return c.Location, true
	case models.PollDate:
		return c.Date, true
	}
	return nil, false
}

// Has reports whether option belongs to the poll type's closed set.
func (c Catalog) Has(pt models.PollType, option string) bool {
	opts, ok := c.Options(pt)
	if !ok {
		return false
	}
	for _, o := range opts {
		if o == option {
			return true
		}
	}
	return false
}

// CheckVote validates a poll type and option pair before a write.
func (c Catalog) CheckVote(pt models.PollType, option string) error {
	if _, ok := c.Options(pt); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPollType, pt)
	}
	if !c.Has(pt, option) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}
	return nil
}
