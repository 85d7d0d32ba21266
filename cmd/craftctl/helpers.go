// Package main provides shared helpers for craftctl commands.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/config"
)

// loadConfigAndClient builds the effective configuration and an API client
// from the discovered config file, environment, and the --server flag.
//
// Parameters:
//   - cmd: The cobra command being executed (for the --server flag)
//
// Returns:
//   - *config.Config: The effective configuration
//   - *api.Client: A client for the craftd API
func loadConfigAndClient(cmd *cobra.Command) (*config.Config, *api.Client) {
	cfg, _ := config.LoadOrDefault()

	baseURL := cfg.Server.URL
	if override, _ := cmd.Root().PersistentFlags().GetString("server"); override != "" {
		baseURL = override
	}

	return cfg, api.NewClient(baseURL, cfg.Server.Token)
}

// jsonOutputEnabled reports whether the global or local --json flag is set.
func jsonOutputEnabled(cmd *cobra.Command, local bool) bool {
	if local {
		return true
	}
	globalJSON, _ := cmd.Root().PersistentFlags().GetBool("json")
	return globalJSON
}

// resolveInstance finds an instance by ID or name.
//
// IDs match exactly; names match case-insensitively. An unambiguous name
// prefix also resolves, so "smp" finds "smp-world" when nothing else starts
// with it.
//
// Parameters:
//   - ctx: Context for the directory request
//   - client: The craftd API client
//   - nameOrID: The instance ID or name given on the command line
//
// Returns:
//   - *api.Instance: The resolved instance
//   - error: Any error that occurred, including ambiguous or unknown names
func resolveInstance(ctx context.Context, client *api.Client, nameOrID string) (*api.Instance, error) {
	instances, err := client.ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	for i := range instances {
		if instances[i].ID == nameOrID {
			return &instances[i], nil
		}
	}

	needle := strings.ToLower(nameOrID)
	for i := range instances {
		if strings.ToLower(instances[i].Name) == needle {
			return &instances[i], nil
		}
	}

	var matches []*api.Instance
	for i := range instances {
		if strings.HasPrefix(strings.ToLower(instances[i].Name), needle) {
			matches = append(matches, &instances[i])
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("no instance named %q", nameOrID)
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, fmt.Errorf("%q is ambiguous: matches %s", nameOrID, strings.Join(names, ", "))
	}
}
