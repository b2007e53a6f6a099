package plugin

import apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"

const configVersionKey = "__version"

// migrateConfig walks rawConfig's migration chain forward (spec §4.6
// step 3): if the stored __version stamp differs from the manifest's
// current version and migrations are declared, apply each migration
// whose From matches the stored version, repeating until no migration
// applies, then stamp the result with the manifest's current version.
func migrateConfig(m Manifest, rawConfig map[string]any) (map[string]any, error) {
	config := map[string]any{}
	for k, v := range rawConfig {
		config[k] = v
	}

	stored, _ := config[configVersionKey].(string)
	if stored == m.Version || len(m.Migrations) == 0 {
		config[configVersionKey] = m.Version
		return config, nil
	}

	for {
		current, _ := config[configVersionKey].(string)
		if current == m.Version {
			break
		}
		applied := false
		for _, mig := range m.Migrations {
			if mig.From != current {
				continue
			}
			next, err := mig.Migrate(config)
			if err != nil {
				return nil, apperrors.ErrPluginManifestInvalidf(m.ID, "config migration from "+mig.From+" failed: "+err.Error())
			}
			config = next
			applied = true
			break
		}
		if !applied {
			break
		}
	}

	config[configVersionKey] = m.Version
	return config, nil
}
