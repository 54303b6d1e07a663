package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityClone(t *testing.T) {
	namespace := "team-a"
	original := &Entity{
		APIVersion: "catalog/v1",
		Kind:       "Component",
		Metadata: &Metadata{
			UID:         "uid-1",
			Generation:  2,
			Name:        "service-a",
			Namespace:   &namespace,
			Labels:      map[string]string{"env": "prod"},
			Annotations: map[string]string{"source": "refresh"},
		},
		Spec: map[string]any{
			"owner": "team-a",
			"deployment": map[string]any{
				"replicas": 3,
				"zones":    []any{"eu-1", "eu-2"},
			},
		},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	// Mutations of the clone must not leak back.
	clone.Metadata.Labels["env"] = "staging"
	*clone.Metadata.Namespace = "team-b"
	clone.Spec["deployment"].(map[string]any)["replicas"] = 5
	clone.Spec["deployment"].(map[string]any)["zones"].([]any)[0] = "us-1"

	assert.Equal(t, "prod", original.Metadata.Labels["env"])
	assert.Equal(t, "team-a", *original.Metadata.Namespace)
	assert.Equal(t, 3, original.Spec["deployment"].(map[string]any)["replicas"])
	assert.Equal(t, "eu-1", original.Spec["deployment"].(map[string]any)["zones"].([]any)[0])
}

func TestEntityClone_Nil(t *testing.T) {
	var entity *Entity
	assert.Nil(t, entity.Clone())

	var md *Metadata
	assert.Nil(t, md.Clone())

	// An entity without metadata or spec clones cleanly.
	clone := (&Entity{Kind: "Component"}).Clone()
	assert.Equal(t, "Component", clone.Kind)
	assert.Nil(t, clone.Metadata)
	assert.Nil(t, clone.Spec)
}
