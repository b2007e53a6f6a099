package plugin

import (
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// validateManifest checks structural requirements only: id, name, and
// version must be present. Dependency/incompatibility/engine-range
// constraints are declared but not resolved against a loaded set here —
// this system has no plugin marketplace to install from, so constraint
// resolution would have nothing to act on beyond what Load already
// rejects (duplicate id).
func validateManifest(m Manifest) error {
	if m.ID == "" {
		return apperrors.ErrPluginManifestInvalidf("", "id is required")
	}
	if m.Name == "" {
		return apperrors.ErrPluginManifestInvalidf(m.ID, "name is required")
	}
	if m.Version == "" {
		return apperrors.ErrPluginManifestInvalidf(m.ID, "version is required")
	}
	for _, dep := range m.Incompatible {
		if dep == m.ID {
			return apperrors.ErrPluginManifestInvalidf(m.ID, "cannot declare itself incompatible")
		}
	}
	return nil
}
