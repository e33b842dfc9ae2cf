package trackertype

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

//go:embed registry.yaml
var defaultTable []byte

// file is the YAML layout of a registry table.
type file struct {
	Version  string        `yaml:"version"`
	Variants []variantFile `yaml:"variants"`
}

type variantFile struct {
	Name           string      `yaml:"name"`
	CreativeTypes  []string    `yaml:"creative_types"`
	HostingSources []string    `yaml:"hosting_sources"`
	Labels         []labelFile `yaml:"labels"`
}

type labelFile struct {
	Label string `yaml:"label"`
	Type  string `yaml:"type"`
}

type table struct {
	variant        domain.Variant
	labels         []string
	byLabel        map[string]domain.TypeID
	byType         map[domain.TypeID]string
	creativeTypes  map[string]bool
	hostingSources map[string]bool
}

// Registry translates between event labels and API tracker types for each
// creative variant. It is read-only after construction and safe for
// concurrent use.
type Registry struct {
	version string
	tables  []*table
	byName  map[domain.Variant]*table
}

// Default returns the registry built from the embedded table.
func Default() *Registry {
	r, err := Load(bytes.NewReader(defaultTable))
	if err != nil {
		panic(fmt.Sprintf("trackertype: embedded registry is invalid: %v", err))
	}
	return r
}

// LoadFile reads a registry table from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trackertype: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML registry table. Every variant must map labels to types
// one-to-one, and a standard variant must be present.
func Load(r io.Reader) (*Registry, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("trackertype: failed to parse registry: %w", err)
	}

	reg := &Registry{
		version: f.Version,
		byName:  make(map[domain.Variant]*table, len(f.Variants)),
	}

	for _, vf := range f.Variants {
		v, ok := domain.ParseVariant(vf.Name)
		if !ok {
			return nil, fmt.Errorf("trackertype: unknown variant %q", vf.Name)
		}
		if _, dup := reg.byName[v]; dup {
			return nil, fmt.Errorf("trackertype: variant %s defined twice", v)
		}

		t := &table{
			variant:        v,
			byLabel:        make(map[string]domain.TypeID, len(vf.Labels)),
			byType:         make(map[domain.TypeID]string, len(vf.Labels)),
			creativeTypes:  toSet(vf.CreativeTypes),
			hostingSources: toSet(vf.HostingSources),
		}
		for _, lf := range vf.Labels {
			label := strings.TrimSpace(lf.Label)
			typeID := domain.TypeID(strings.TrimSpace(lf.Type))
			if label == "" || typeID == "" {
				return nil, fmt.Errorf("trackertype: %s: empty label or type", v)
			}
			key := normalize(label)
			if _, dup := t.byLabel[key]; dup {
				return nil, fmt.Errorf("trackertype: %s: label %q mapped twice", v, label)
			}
			if prev, dup := t.byType[typeID]; dup {
				return nil, fmt.Errorf("trackertype: %s: type %s mapped by both %q and %q", v, typeID, prev, label)
			}
			t.byLabel[key] = typeID
			t.byType[typeID] = label
			t.labels = append(t.labels, label)
		}

		reg.tables = append(reg.tables, t)
		reg.byName[v] = t
	}

	if _, ok := reg.byName[domain.VariantStandard]; !ok {
		return nil, fmt.Errorf("trackertype: registry has no %s variant", domain.VariantStandard)
	}

	return reg, nil
}

// Version returns the table version string.
func (r *Registry) Version() string {
	return r.version
}

// Variants returns the configured variants in detection order.
func (r *Registry) Variants() []domain.Variant {
	out := make([]domain.Variant, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t.variant)
	}
	return out
}

// DetectVariant picks the vocabulary for a creative from its creativeType and
// hostingSource fields. An empty creativeType yields the standard variant.
// Unrecognized combinations also yield standard, together with
// domain.ErrVariantAmbiguous so callers can decide whether to proceed.
func (r *Registry) DetectVariant(creativeType, hostingSource string) (domain.Variant, error) {
	ct := strings.ToUpper(strings.TrimSpace(creativeType))
	if ct == "" {
		return domain.VariantStandard, nil
	}
	hs := strings.ToUpper(strings.TrimSpace(hostingSource))

	for _, t := range r.tables {
		if !t.creativeTypes[ct] {
			continue
		}
		if len(t.hostingSources) > 0 && !t.hostingSources[hs] {
			continue
		}
		return t.variant, nil
	}

	return domain.VariantStandard, fmt.Errorf("%w: creativeType=%s hostingSource=%s",
		domain.ErrVariantAmbiguous, ct, hs)
}

// ToAPIType resolves a human label for the given variant.
func (r *Registry) ToAPIType(label string, variant domain.Variant) (domain.TypeID, error) {
	t, ok := r.byName[variant]
	if !ok {
		return "", fmt.Errorf("%w: variant %q is not configured", domain.ErrUnknownTrackerType, variant)
	}
	typeID, ok := t.byLabel[normalize(label)]
	if !ok {
		return "", fmt.Errorf("%w: %q for %s creatives", domain.ErrUnknownTrackerType, strings.TrimSpace(label), variant)
	}
	return typeID, nil
}

// ToLabel is the inverse of ToAPIType. Types the table does not know are
// returned verbatim.
func (r *Registry) ToLabel(typeID domain.TypeID, variant domain.Variant) string {
	if t, ok := r.byName[variant]; ok {
		if label, ok := t.byType[typeID]; ok {
			return label
		}
	}
	return string(typeID)
}

// Labels lists the labels of a variant in table order.
func (r *Registry) Labels(variant domain.Variant) []string {
	t, ok := r.byName[variant]
	if !ok {
		return nil
	}
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

func normalize(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToUpper(strings.TrimSpace(v))] = true
	}
	return set
}
