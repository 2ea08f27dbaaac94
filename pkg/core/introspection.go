package core

import (
	"github.com/aretw0/introspection"
)

// CollectionState exposes internal state for observability.
type CollectionState struct {
	Key            string         `json:"key"`
	Notes          int            `json:"notes"`
	Colors         map[string]int `json:"colors"`
	Language       string         `json:"language"`
	RepositoryType string         `json:"repository_type"`
}

// State implements introspection.Introspectable.
func (c *Collection) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	colors := make(map[string]int)
	for _, n := range c.notes {
		colors[string(n.Color)]++
	}

	repoType := "unknown"
	if c.repo != nil {
		repoType = "repository"
		if comp, ok := c.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	return CollectionState{
		Key:            c.key,
		Notes:          len(c.notes),
		Colors:         colors,
		Language:       c.lang.String(),
		RepositoryType: repoType,
	}
}

// ComponentType implements introspection.Component.
func (c *Collection) ComponentType() string {
	return "collection"
}

var _ introspection.Introspectable = (*Collection)(nil)
var _ introspection.Component = (*Collection)(nil)
