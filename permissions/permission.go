package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one chi route pattern. An empty role
// list lets any authenticated principal through; Skip makes the route public.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// AllowsRole reports whether role may call the endpoint.
func (p Permission) AllowsRole(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]int
}

func endpointKey(path, method string) string {
	return method + " " + path
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]int, len(r.Endpoints))

	for idx, endpoint := range r.Endpoints {
		key := endpointKey(endpoint.Path, endpoint.Method)
		if _, ok := r.index[key]; ok {
			log.Warn().Str("endpoint", key).Msg("Duplicate permission entry, keeping the first one")

			continue
		}

		r.index[key] = idx
	}
}

// FindPermissions returns the entry for a route pattern and method, or the zero
// Permission when the endpoint is not listed.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx, ok := r.index[endpointKey(path, method)]
	if r.index == nil {
		idx = slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
			return rp.Path == path && rp.Method == method
		})
		ok = idx != -1
	}

	if !ok {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Parse decodes a permissions document.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, err
	}

	permissions.buildIndex()

	return &permissions, nil
}

// Get loads the permissions embedded in the binary.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
