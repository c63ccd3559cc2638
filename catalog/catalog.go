// Package catalog holds the static task-graph definitions: for every campaign
// kind, the task type profiles to create and the edge rules wiring them
// together. The catalog ships embedded in the binary and is validated once at
// load; it is never mutated at runtime.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"promoforge/models"
	"promoforge/schedule"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Profile describes one node of a campaign's task graph.
type Profile struct {
	Name string `yaml:"name"`
	// Pattern is the key of an existing ticket whose summary/description
	// serve as the content template for this task type.
	Pattern    string   `yaml:"pattern"`
	Project    string   `yaml:"project"`
	IssueType  string   `yaml:"issue_type"`
	Components []string `yaml:"components,omitempty"`
	// Labels are template strings rendered against the variable context.
	Labels []string `yaml:"labels,omitempty"`
	// Due names the deadline feeding this task's due date.
	Due string `yaml:"due"`
	// ParentFromMeta names the campaign metadata key holding the parent
	// ticket, for profiles created under an epic.
	ParentFromMeta string `yaml:"parent_from_meta,omitempty"`
	// Fields carries tracker-specific extra fields; string leaves are
	// template strings rendered against the variable context.
	Fields map[string]any `yaml:"fields,omitempty"`
}

// EdgeRule declares a link between two task types when both were created.
// To may be "*", meaning every created profile other than From and the
// entries in Except.
type EdgeRule struct {
	Kind   string   `yaml:"kind"`
	From   string   `yaml:"from"`
	To     string   `yaml:"to"`
	Except []string `yaml:"except,omitempty"`
}

// Kind is the task graph of one campaign kind. Profile order in the resource
// is the creation order.
type Kind struct {
	Name     string     `yaml:"name"`
	Profiles []Profile  `yaml:"profiles"`
	Edges    []EdgeRule `yaml:"edges"`
}

// Catalog is the full static task-graph catalog.
type Catalog struct {
	// Managers maps a project code to the tracker account id of its
	// delivery manager, exposed to templates as project_manager.
	Managers map[string]string `yaml:"managers"`
	Kinds    []Kind            `yaml:"kinds"`
}

var edgeKinds = map[string]models.LinkKind{
	"causes":        models.LinkCauses,
	"is_blocked_by": models.LinkBlockedBy,
	"relates_to":    models.LinkRelatesTo,
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	return parse(embeddedCatalog)
}

// LoadFile parses and validates a catalog from disk, overriding the embedded
// resource.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Kinds) == 0 {
		return fmt.Errorf("catalog defines no campaign kinds")
	}
	for _, k := range c.Kinds {
		declared := make(map[string]struct{}, len(k.Profiles))
		for _, p := range k.Profiles {
			if p.Name == "" {
				return fmt.Errorf("kind %s: profile with empty name", k.Name)
			}
			if _, dup := declared[p.Name]; dup {
				return fmt.Errorf("kind %s: duplicate profile %s", k.Name, p.Name)
			}
			declared[p.Name] = struct{}{}
			if p.Pattern == "" {
				return fmt.Errorf("kind %s: profile %s has no content pattern", k.Name, p.Name)
			}
			if p.Project == "" || p.IssueType == "" {
				return fmt.Errorf("kind %s: profile %s is missing project or issue type", k.Name, p.Name)
			}
			if !schedule.Known(p.Due) {
				return fmt.Errorf("kind %s: profile %s references unknown deadline %q", k.Name, p.Name, p.Due)
			}
		}
		for _, e := range k.Edges {
			if _, ok := edgeKinds[e.Kind]; !ok {
				return fmt.Errorf("kind %s: unknown edge kind %q", k.Name, e.Kind)
			}
			if _, ok := declared[e.From]; !ok {
				return fmt.Errorf("kind %s: edge references undeclared profile %q", k.Name, e.From)
			}
			if e.To != "*" {
				if _, ok := declared[e.To]; !ok {
					return fmt.Errorf("kind %s: edge references undeclared profile %q", k.Name, e.To)
				}
			}
			for _, ex := range e.Except {
				if _, ok := declared[ex]; !ok {
					return fmt.Errorf("kind %s: edge excepts undeclared profile %q", k.Name, ex)
				}
			}
		}
	}
	return nil
}

// Kind returns the task graph for a campaign kind.
func (c *Catalog) Kind(name string) (Kind, bool) {
	for _, k := range c.Kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// KindNames lists the supported campaign kinds in catalog order.
func (c *Catalog) KindNames() []string {
	out := make([]string, 0, len(c.Kinds))
	for _, k := range c.Kinds {
		out = append(out, k.Name)
	}
	return out
}

// Select intersects the requested task type names with the kind's declared
// profiles, preserving declared creation order. Unknown names are ignored.
func (k Kind) Select(requested []string) []Profile {
	want := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		want[name] = struct{}{}
	}
	var out []Profile
	for _, p := range k.Profiles {
		if _, ok := want[p.Name]; ok {
			out = append(out, p)
		}
	}
	return out
}

// LinkSpec is one concrete link to create, expressed in profile names.
type LinkSpec struct {
	Kind models.LinkKind
	From string
	To   string
}

// Links evaluates the kind's edge rules against the set of created profiles
// and returns the links to issue, in declared profile order for determinism.
func (k Kind) Links(created map[string]models.CreatedTask) []LinkSpec {
	var out []LinkSpec
	for _, e := range k.Edges {
		kind := edgeKinds[e.Kind]
		if _, ok := created[e.From]; !ok {
			continue
		}
		if e.To != "*" {
			if _, ok := created[e.To]; ok {
				out = append(out, LinkSpec{Kind: kind, From: e.From, To: e.To})
			}
			continue
		}
		excluded := make(map[string]struct{}, len(e.Except)+1)
		excluded[e.From] = struct{}{}
		for _, ex := range e.Except {
			excluded[ex] = struct{}{}
		}
		for _, p := range k.Profiles {
			if _, ok := created[p.Name]; !ok {
				continue
			}
			if _, skip := excluded[p.Name]; skip {
				continue
			}
			out = append(out, LinkSpec{Kind: kind, From: e.From, To: p.Name})
		}
	}
	return out
}
