package catalog

import (
	"testing"

	"catalog-manager/feature/catalog/models"

	"github.com/stretchr/testify/assert"
)

func TestMerge_PreservesIdentity(t *testing.T) {
	base := &models.Entity{
		APIVersion: "catalog/v1",
		Kind:       "Component",
		Metadata: &models.Metadata{
			UID:        "uid-1",
			Generation: 7,
			Name:       "service-a",
		},
	}
	incoming := &models.Entity{
		APIVersion: "catalog/v2",
		Kind:       "Website",
		Metadata: &models.Metadata{
			// Untrusted identity from freshly parsed input must be discarded.
			UID:        "uid-spoofed",
			Generation: 999,
			Name:       "service-a",
		},
		Spec: map[string]any{"owner": "team-b"},
	}

	merged := Merge(base, incoming)

	assert.Equal(t, "uid-1", merged.Metadata.UID)
	assert.Equal(t, int64(7), merged.Metadata.Generation)

	// Everything else follows incoming.
	assert.Equal(t, "catalog/v2", merged.APIVersion)
	assert.Equal(t, "Website", merged.Kind)
	assert.Equal(t, map[string]any{"owner": "team-b"}, merged.Spec)
}

func TestMerge_Annotations(t *testing.T) {
	base := &models.Entity{
		Metadata: &models.Metadata{
			UID:        "uid-1",
			Generation: 1,
			Annotations: map[string]string{
				"added-out-of-band": "keep-me",
				"shared":            "old",
			},
		},
	}
	incoming := &models.Entity{
		Metadata: &models.Metadata{
			Annotations: map[string]string{
				"shared": "new",
				"fresh":  "value",
			},
		},
	}

	merged := Merge(base, incoming)

	// Keys only in base survive; on collision the incoming value wins.
	assert.Equal(t, map[string]string{
		"added-out-of-band": "keep-me",
		"shared":            "new",
		"fresh":             "value",
	}, merged.Metadata.Annotations)
}

func TestMerge_LabelsFollowIncoming(t *testing.T) {
	base := &models.Entity{
		Metadata: &models.Metadata{
			UID:    "uid-1",
			Labels: map[string]string{"tier": "1"},
		},
	}
	incoming := &models.Entity{
		Metadata: &models.Metadata{
			Labels: map[string]string{"env": "prod"},
		},
	}

	merged := Merge(base, incoming)

	// Labels have no special merge rule: incoming replaces base wholesale.
	assert.Equal(t, map[string]string{"env": "prod"}, merged.Metadata.Labels)
}

func TestMerge_NilBaseMetadata(t *testing.T) {
	incoming := &models.Entity{
		Kind:     "Component",
		Metadata: &models.Metadata{Name: "service-a"},
	}

	merged := Merge(&models.Entity{}, incoming)
	assert.Equal(t, "service-a", merged.Metadata.Name)

	merged = Merge(nil, incoming)
	assert.Equal(t, "service-a", merged.Metadata.Name)
}

func TestMerge_DoesNotAliasIncoming(t *testing.T) {
	incoming := &models.Entity{
		Metadata: &models.Metadata{Name: "service-a"},
		Spec: map[string]any{
			"nested": map[string]any{"replicas": 3},
		},
	}
	base := &models.Entity{
		Metadata: &models.Metadata{UID: "uid-1", Generation: 2},
	}

	merged := Merge(base, incoming)
	merged.Spec["nested"].(map[string]any)["replicas"] = 5

	assert.Equal(t, 3, incoming.Spec["nested"].(map[string]any)["replicas"])
}
