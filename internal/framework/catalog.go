package framework

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"acqos/internal/logging"
)

//go:embed curriculum.yaml
var defaultCurriculum []byte

// document is the on-disk shape of a curriculum file.
type document struct {
	BrandingModules []BrandingModule `yaml:"branding_modules"`
	Phases          []Phase          `yaml:"phases"`
}

// Catalog is a validated, read-only curriculum. Callers must treat the
// returned phases and sub-modules as immutable.
type Catalog struct {
	phases   []Phase
	branding []BrandingModule
	index    map[string]int
	keys     map[string]Key
}

// Default returns the curriculum embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCurriculum)
}

// LoadFile reads and validates a curriculum YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curriculum: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates curriculum YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse curriculum: %w", err)
	}
	return New(doc.Phases, doc.BrandingModules)
}

// New validates phases and branding modules and indexes them.
func New(phases []Phase, branding []BrandingModule) (*Catalog, error) {
	c := &Catalog{
		phases:   phases,
		branding: branding,
		index:    make(map[string]int, len(phases)),
		keys:     make(map[string]Key),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if len(c.phases) == 0 {
		return fmt.Errorf("curriculum has no phases")
	}

	for i, p := range c.phases {
		if p.ID == "" {
			return fmt.Errorf("phase %d: empty id", i)
		}
		if _, dup := c.index[p.ID]; dup {
			return fmt.Errorf("phase %q: duplicate id", p.ID)
		}
		c.index[p.ID] = i

		if strings.TrimSpace(p.UnlockCode) == "" {
			return fmt.Errorf("phase %q: empty unlock code", p.ID)
		}
		if p.Type != PhaseSetup && p.Type != PhaseExecution {
			return fmt.Errorf("phase %q: invalid type %q", p.ID, p.Type)
		}
		if p.Icon == IconNone {
			return fmt.Errorf("phase %q: missing icon", p.ID)
		}

		subs := make(map[string]bool, len(p.SubModules))
		for _, s := range p.SubModules {
			if s.ID == "" {
				return fmt.Errorf("phase %q: sub-module with empty id", p.ID)
			}
			if subs[s.ID] {
				return fmt.Errorf("phase %q: duplicate sub-module %q", p.ID, s.ID)
			}
			subs[s.ID] = true

			tasks := make(map[string]bool, len(s.Tasks))
			for _, t := range s.Tasks {
				if t.ID == "" {
					return fmt.Errorf("sub-module %q: task with empty id", s.ID)
				}
				if tasks[t.ID] {
					return fmt.Errorf("sub-module %q: duplicate task %q", s.ID, t.ID)
				}
				tasks[t.ID] = true
				if err := validateTask(t); err != nil {
					return fmt.Errorf("task %q: %w", t.ID, err)
				}

				key := TaskKey(p.ID, s.ID, t.ID)
				if err := c.addKey(key); err != nil {
					return err
				}
				for _, in := range t.Inputs {
					if err := c.addKey(key.WithField(in.ID)); err != nil {
						return err
					}
				}
			}
		}
	}

	if _, ok := c.index[IdentityPhaseID]; !ok {
		return fmt.Errorf("curriculum has no %q phase", IdentityPhaseID)
	}

	seen := make(map[string]bool, len(c.branding))
	for _, b := range c.branding {
		if b.ID == "" || seen[b.ID] {
			return fmt.Errorf("branding module %q: empty or duplicate id", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

func validateTask(t Task) error {
	switch t.Importance {
	case "", ImportanceMandatory, ImportanceRecommended, ImportanceOptional:
	default:
		return fmt.Errorf("invalid importance %q", t.Importance)
	}

	fields := make(map[string]bool, len(t.Inputs))
	for _, in := range t.Inputs {
		if in.ID == "" {
			return fmt.Errorf("input with empty id")
		}
		if fields[in.ID] {
			return fmt.Errorf("duplicate input %q", in.ID)
		}
		fields[in.ID] = true

		switch in.Kind {
		case InputText, InputTextarea, InputNumber:
		case InputSelect:
			if len(in.Options) == 0 {
				return fmt.Errorf("select input %q has no options", in.ID)
			}
		default:
			return fmt.Errorf("input %q: invalid kind %q", in.ID, in.Kind)
		}
	}
	return nil
}

// addKey registers the encoding of k and rejects two keys that would share
// the same stored string.
func (c *Catalog) addKey(k Key) error {
	enc := k.String()
	if other, dup := c.keys[enc]; dup {
		return fmt.Errorf("key collision: %+v and %+v both encode to %q", other, k, enc)
	}
	c.keys[enc] = k
	return nil
}

// Phases returns the phases in curriculum order.
func (c *Catalog) Phases() []Phase {
	out := make([]Phase, len(c.phases))
	copy(out, c.phases)
	return out
}

// BrandingModules returns the sections of the branding library.
func (c *Catalog) BrandingModules() []BrandingModule {
	out := make([]BrandingModule, len(c.branding))
	copy(out, c.branding)
	return out
}

// Phase looks up a phase by id.
func (c *Catalog) Phase(id string) (Phase, bool) {
	i, ok := c.index[id]
	if !ok {
		return Phase{}, false
	}
	return c.phases[i], true
}

// SubModule looks up a sub-module and its index within the phase.
func (c *Catalog) SubModule(phaseID, subModuleID string) (SubModule, int, bool) {
	p, ok := c.Phase(phaseID)
	if !ok {
		return SubModule{}, -1, false
	}
	return p.SubModule(subModuleID)
}

// Task looks up a task by its three ids.
func (c *Catalog) Task(phaseID, subModuleID, taskID string) (Task, bool) {
	s, _, ok := c.SubModule(phaseID, subModuleID)
	if !ok {
		return Task{}, false
	}
	return s.Task(taskID)
}

// Lookup resolves a task key (the field component is ignored).
func (c *Catalog) Lookup(k Key) (Task, bool) {
	return c.Task(k.Phase, k.SubModule, k.Task)
}

// ParseKey decodes a stored key string. Decoding goes through the catalog
// because ids may themselves contain the separator; validation guarantees the
// mapping is unambiguous. Unknown strings report false.
func (c *Catalog) ParseKey(s string) (Key, bool) {
	k, ok := c.keys[s]
	return k, ok
}

// TaskKeys returns every task key of the phase in curriculum order.
func (c *Catalog) TaskKeys(phaseID string) []Key {
	p, ok := c.Phase(phaseID)
	if !ok {
		return nil
	}
	var keys []Key
	for _, s := range p.SubModules {
		for _, t := range s.Tasks {
			keys = append(keys, TaskKey(p.ID, s.ID, t.ID))
		}
	}
	return keys
}

// WithUnlockCodes returns a copy of the catalog whose unlock codes are
// replaced for the phases named in codes. Empty codes and unknown phases are
// ignored.
func (c *Catalog) WithUnlockCodes(codes map[string]string) *Catalog {
	out := &Catalog{
		phases:   c.Phases(),
		branding: c.branding,
		index:    c.index,
		keys:     c.keys,
	}
	for id, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		i, ok := out.index[id]
		if !ok {
			logging.FrameworkWarn("Unlock code override for unknown phase %q ignored", id)
			continue
		}
		out.phases[i].UnlockCode = code
	}
	return out
}
