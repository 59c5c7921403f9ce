// Package roles defines the assistant personas a chat can be answered in.
// Each role carries display metadata plus the list of topics it covers; the
// set is fixed at process start.
package roles

import (
	"fmt"
	"regexp"
)

// Role describes one assistant persona.
type Role struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Color       string   `yaml:"color" json:"color"`
	Icon        string   `yaml:"icon" json:"icon"`
	Expertise   []string `yaml:"expertise" json:"expertise"`
}

// Well-known role ids.
const (
	Artist   = "artist"
	Fan      = "fan"
	Licensor = "licensor"
	Provider = "provider"
	Legal    = "legal"
	General  = "general"
)

var builtin = []Role{
	{
		ID:          Artist,
		Name:        "Artist Assistant",
		Description: "Your personal music career advisor and task manager",
		Color:       "#8B5CF6",
		Icon:        "🎵",
		Expertise: []string{
			"Release planning & checklists",
			"Marketing strategy & social media",
			"Royalty explanation & analytics",
			"Career development advice",
			"Platform guidance & tutorials",
			"Task management & scheduling",
		},
	},
	{
		ID:          Fan,
		Name:        "Fan Assistant",
		Description: "Music discovery and fan engagement specialist",
		Color:       "#10B981",
		Icon:        "🎧",
		Expertise: []string{
			"Personalized music recommendations",
			"Playlist generation",
			"Artist discovery",
			"Sound Locker guidance",
			"Community features help",
			"Music exploration",
		},
	},
	{
		ID:          Licensor,
		Name:        "Sync Licensing Assistant",
		Description: "Music licensing and sync placement specialist",
		Color:       "#F59E0B",
		Icon:        "🎬",
		Expertise: []string{
			"Music search & discovery",
			"Licensing process guidance",
			"Sync placement advice",
			"Contract explanations",
			"Budget recommendations",
			"Usage rights clarification",
		},
	},
	{
		ID:          Provider,
		Name:        "Service Provider Assistant",
		Description: "Marketplace and service delivery specialist",
		Color:       "#EF4444",
		Icon:        "🛠️",
		Expertise: []string{
			"Marketplace navigation",
			"Project management",
			"Payment processing help",
			"Profile optimization",
			"Client communication",
			"Service delivery guidance",
		},
	},
	{
		ID:          Legal,
		Name:        "Music Legal Assistant",
		Description: "Music industry legal guidance (not legal advice)",
		Color:       "#6366F1",
		Icon:        "⚖️",
		Expertise: []string{
			"Contract explanations",
			"Rights management info",
			"Copyright basics",
			"Publishing deal guidance",
			"PRO registration help",
			"Industry legal concepts",
		},
	},
	{
		ID:          General,
		Name:        "indii.music Assistant",
		Description: "General platform guidance and music industry knowledge",
		Color:       "#6B7280",
		Icon:        "🎼",
		Expertise: []string{
			"Platform navigation",
			"Feature explanations",
			"Getting started guidance",
			"Account setup help",
			"General music industry info",
			"Troubleshooting support",
		},
	},
}

// Registry is an ordered, read-only set of roles.
type Registry struct {
	roles []Role
	byID  map[string]int
}

// NewRegistry builds a registry from the given roles. The set must contain
// a general role, which is the answer for unknown ids.
func NewRegistry(list []Role) (*Registry, error) {
	r := &Registry{
		roles: make([]Role, 0, len(list)),
		byID:  make(map[string]int, len(list)),
	}
	for _, role := range list {
		if err := role.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[role.ID]; dup {
			return nil, fmt.Errorf("duplicate role id %q", role.ID)
		}
		r.byID[role.ID] = len(r.roles)
		r.roles = append(r.roles, role.clone())
	}
	if _, ok := r.byID[General]; !ok {
		return nil, fmt.Errorf("role set must include %q", General)
	}
	return r, nil
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := NewRegistry(builtin)
	if err != nil {
		panic(err)
	}
	return r
}

// GetRoleByID returns the role with the given id, or the general role when
// the id is unknown.
func (r *Registry) GetRoleByID(id string) Role {
	if i, ok := r.byID[id]; ok {
		return r.roles[i].clone()
	}
	return r.roles[r.byID[General]].clone()
}

// Lookup returns the role and whether the id is registered.
func (r *Registry) Lookup(id string) (Role, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Role{}, false
	}
	return r.roles[i].clone(), true
}

// All returns every role in declaration order.
func (r *Registry) All() []Role {
	out := make([]Role, len(r.roles))
	for i, role := range r.roles {
		out[i] = role.clone()
	}
	return out
}

// IDs returns every role id in declaration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.roles))
	for i, role := range r.roles {
		ids[i] = role.ID
	}
	return ids
}

// Len returns the number of roles.
func (r *Registry) Len() int {
	return len(r.roles)
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks that the role is usable.
func (role Role) Validate() error {
	if role.ID == "" {
		return fmt.Errorf("role id is required")
	}
	if role.Name == "" {
		return fmt.Errorf("role %q: name is required", role.ID)
	}
	if !hexColor.MatchString(role.Color) {
		return fmt.Errorf("role %q: color %q must be #RRGGBB", role.ID, role.Color)
	}
	return nil
}

func (role Role) clone() Role {
	role.Expertise = append([]string(nil), role.Expertise...)
	return role
}

var defaultRegistry = Default()

// GetRoleByID looks up a role in the built-in registry.
func GetRoleByID(id string) Role {
	return defaultRegistry.GetRoleByID(id)
}

// All returns the built-in roles in declaration order.
func All() []Role {
	return defaultRegistry.All()
}
