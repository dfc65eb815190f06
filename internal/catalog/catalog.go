// Package catalog holds the named augment bits of the two ability bitfields.
package catalog

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// NoneName is the name of the zero-mask sentinel present in every catalog.
const NoneName = "NONE"

var (
	ErrUnknownAugment = errors.New("unknown augment")
	ErrDuplicateName  = errors.New("duplicate augment name")
	ErrInvalidMask    = errors.New("augment mask must be zero or a single bit")
)

// Field selects one of the two bitfields of a btlAtelSetAbility call.
type Field int

const (
	First Field = iota
	Second
)

func (f Field) String() string {
	switch f {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Entry is a single named bit of a field.
type Entry struct {
	Name        string `yaml:"name"`
	Mask        uint32 `yaml:"mask"`
	Description string `yaml:"description,omitempty"`
	Field       Field  `yaml:"-"`
}

// IsNone reports whether the entry is the zero sentinel.
func (e Entry) IsNone() bool {
	return e.Mask == 0
}

// Catalog is the ordered, immutable list of entries for one field.
type Catalog struct {
	field   Field
	entries []Entry
	byName  map[string]int
}

// New builds a catalog for field. A NONE sentinel is prepended when the
// entries do not carry one.
func New(field Field, entries []Entry) (*Catalog, error) {
	c := &Catalog{
		field:  field,
		byName: make(map[string]int, len(entries)+1),
	}

	hasNone := false
	for _, e := range entries {
		if e.Mask == 0 {
			hasNone = true
			break
		}
	}
	if !hasNone {
		c.add(Entry{Name: NoneName, Description: "No augment."})
	}

	for _, e := range entries {
		e.Name = Normalize(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("%s catalog: empty augment name", field)
		}
		if _, ok := c.byName[e.Name]; ok {
			return nil, fmt.Errorf("%s catalog: %w: %s", field, ErrDuplicateName, e.Name)
		}
		if e.Mask != 0 && bits.OnesCount32(e.Mask) != 1 {
			return nil, fmt.Errorf("%s catalog: %w: %s=0x%08x", field, ErrInvalidMask, e.Name, e.Mask)
		}
		c.add(e)
	}
	return c, nil
}

func (c *Catalog) add(e Entry) {
	e.Field = c.field
	c.byName[e.Name] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Field returns the field this catalog describes.
func (c *Catalog) Field() Field {
	return c.field
}

// Entries returns a copy of the catalog in its fixed order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get finds an entry by (normalized) name.
func (c *Catalog) Get(name string) (Entry, bool) {
	i, ok := c.byName[Normalize(name)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Names lists every non-sentinel entry whose mask is fully set in value,
// in catalog order. The result is never nil.
func (c *Catalog) Names(value uint32) []string {
	names := []string{}
	for _, e := range c.entries {
		if e.Mask != 0 && value&e.Mask == e.Mask {
			names = append(names, e.Name)
		}
	}
	return names
}

// Set carries the catalogs of both fields.
type Set struct {
	First  *Catalog
	Second *Catalog
}

// For returns the catalog of field f.
func (s *Set) For(f Field) *Catalog {
	if f == Second {
		return s.Second
	}
	return s.First
}

// Lookup resolves a user-supplied name against the first catalog, then the
// second. Unknown names produce an error wrapping ErrUnknownAugment with the
// closest known names as suggestions.
func (s *Set) Lookup(name string) (Entry, error) {
	if e, ok := s.First.Get(name); ok {
		return e, nil
	}
	if e, ok := s.Second.Get(name); ok {
		return e, nil
	}
	if hints := s.suggest(Normalize(name)); len(hints) > 0 {
		return Entry{}, fmt.Errorf("%w %q (did you mean %s?)", ErrUnknownAugment, name, strings.Join(hints, ", "))
	}
	return Entry{}, fmt.Errorf("%w %q", ErrUnknownAugment, name)
}

// Resolve splits names into per-field entry lists, keeping the given order.
// All unknown names are reported together.
func (s *Set) Resolve(names []string) (first, second []Entry, err error) {
	var errs []error
	for _, name := range names {
		e, lerr := s.Lookup(name)
		if lerr != nil {
			errs = append(errs, lerr)
			continue
		}
		if e.Field == Second {
			second = append(second, e)
		} else {
			first = append(first, e)
		}
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}
	return first, second, nil
}

type suggestion struct {
	name string
	dist int
}

func (s *Set) suggest(name string) []string {
	if len(name) < 3 {
		return nil
	}
	var cands []suggestion
	for _, c := range []*Catalog{s.First, s.Second} {
		for _, e := range c.entries {
			if e.IsNone() {
				continue
			}
			if strings.Contains(e.Name, name) {
				cands = append(cands, suggestion{e.Name, 0})
				continue
			}
			dist := levenshtein.ComputeDistance(name, e.Name)
			if dist <= distanceLimit(len(e.Name)) {
				cands = append(cands, suggestion{e.Name, dist})
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].name < cands[j].name
		}
		return cands[i].dist < cands[j].dist
	})

	out := make([]string, 0, 3)
	for _, c := range cands {
		out = append(out, c.name)
		if len(out) == 3 {
			break
		}
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Normalize folds a name to catalog form: upper case, with spaces and
// dashes turned into underscores.
func Normalize(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

type fileFormat struct {
	First  []Entry `yaml:"first"`
	Second []Entry `yaml:"second"`
}

// Parse reads a YAML catalog with `first` and `second` entry lists.
func Parse(data []byte) (*Set, error) {
	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if len(ff.First) == 0 && len(ff.Second) == 0 {
		return nil, errors.New("catalog has no entries")
	}
	first, err := New(First, ff.First)
	if err != nil {
		return nil, err
	}
	second, err := New(Second, ff.Second)
	if err != nil {
		return nil, err
	}
	return &Set{First: first, Second: second}, nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}
