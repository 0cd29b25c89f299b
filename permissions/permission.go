package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the endpoint. An empty role list admits nobody.
func (p Permission) Allows(role string) bool {
	return p.Skip || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func endpointKey(path, method string) string {
	return method + " " + path
}

// Parse decodes a permission document and rejects duplicate or incomplete endpoints.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.index = make(map[string]Permission, len(permissions.Endpoints))

	for _, endpoint := range permissions.Endpoints {
		if endpoint.Path == "" || endpoint.Method == "" {
			return nil, fmt.Errorf("permission entry needs both path and method: %+v", endpoint)
		}

		key := endpointKey(endpoint.Path, endpoint.Method)
		if _, ok := permissions.index[key]; ok {
			return nil, fmt.Errorf("duplicate permission entry for %s", key)
		}

		permissions.index[key] = endpoint
	}

	return &permissions, nil
}

// FindPermissions returns the entry for the route pattern and whether one exists.
func (r *PermissionData) FindPermissions(path, method string) (Permission, bool) {
	permission, ok := r.index[endpointKey(path, method)]

	return permission, ok
}

func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
