package catalog

import (
	"encoding/json"
	"testing"

	"catalog-manager/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRow_StripsStoreManagedFields(t *testing.T) {
	namespace := "team-a"
	entity := &models.Entity{
		APIVersion: "catalog/v1",
		Kind:       "Component",
		Metadata: &models.Metadata{
			UID:        "caller-supplied-uid",
			Etag:       "caller-supplied-etag",
			Generation: 42,
			Name:       "service-a",
			Namespace:  &namespace,
			Labels:     map[string]string{"env": "prod"},
		},
		Spec: map[string]any{"owner": "team-a"},
	}

	row, err := ToRow(entity, nil)
	require.NoError(t, err)

	assert.Equal(t, "catalog/v1", row.APIVersion)
	assert.Equal(t, "Component", row.Kind)
	assert.Equal(t, "service-a", row.Name)
	assert.Equal(t, "team-a", row.Namespace)
	assert.NotEmpty(t, row.Etag)
	assert.NotEqual(t, "caller-supplied-etag", row.Etag)

	// The serialized metadata blob must not carry the store-managed fields.
	require.NotNil(t, row.Metadata)
	var blob map[string]any
	require.NoError(t, json.Unmarshal([]byte(*row.Metadata), &blob))
	assert.NotContains(t, blob, "uid")
	assert.NotContains(t, blob, "etag")
	assert.NotContains(t, blob, "generation")
	assert.Equal(t, "service-a", blob["name"])
}

func TestToRow_FreshEtagPerWrite(t *testing.T) {
	entity := &models.Entity{
		Kind:     "Component",
		Metadata: &models.Metadata{Name: "service-a"},
	}

	first, err := ToRow(entity, nil)
	require.NoError(t, err)
	second, err := ToRow(entity, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.Etag, second.Etag)
}

func TestRoundTrip(t *testing.T) {
	namespace := "team-a"
	locationID := "loc-1"
	entity := &models.Entity{
		APIVersion: "catalog/v1",
		Kind:       "Component",
		Metadata: &models.Metadata{
			Name:        "service-a",
			Namespace:   &namespace,
			Labels:      map[string]string{"env": "prod"},
			Annotations: map[string]string{"source": "refresh"},
		},
		Spec: map[string]any{
			"owner": "team-a",
			"ports": []any{float64(80), float64(443)},
		},
	}

	row, err := ToRow(entity, &locationID)
	require.NoError(t, err)
	row.ID = "uid-1"
	row.Generation = 3

	decoded, err := FromRow(row)
	require.NoError(t, err)

	assert.Equal(t, entity.APIVersion, decoded.APIVersion)
	assert.Equal(t, entity.Kind, decoded.Kind)
	assert.Equal(t, entity.Metadata.Name, decoded.Metadata.Name)
	assert.Equal(t, entity.Metadata.Namespace, decoded.Metadata.Namespace)
	assert.Equal(t, entity.Metadata.Labels, decoded.Metadata.Labels)
	assert.Equal(t, entity.Metadata.Annotations, decoded.Metadata.Annotations)
	assert.Equal(t, entity.Spec, decoded.Spec)

	// uid, etag and generation reflect the row, not the input.
	assert.Equal(t, "uid-1", decoded.Metadata.UID)
	assert.Equal(t, row.Etag, decoded.Metadata.Etag)
	assert.Equal(t, int64(3), decoded.Metadata.Generation)
}

func TestFromRow_RowValuesWinOverBlob(t *testing.T) {
	// A blob that (incorrectly) embeds store-managed fields must lose
	// against the row columns.
	blob := `{"name":"service-a","uid":"stale-uid","etag":"stale-etag","generation":1}`
	row := models.EntityRow{
		ID:         "uid-current",
		Etag:       "etag-current",
		Generation: 9,
		APIVersion: "catalog/v1",
		Kind:       "Component",
		Name:       "service-a",
		Metadata:   &blob,
	}

	entity, err := FromRow(row)
	require.NoError(t, err)

	assert.Equal(t, "uid-current", entity.Metadata.UID)
	assert.Equal(t, "etag-current", entity.Metadata.Etag)
	assert.Equal(t, int64(9), entity.Metadata.Generation)
}

func TestFromRow_AbsentBlobs(t *testing.T) {
	row := models.EntityRow{
		ID:         "uid-1",
		Etag:       "etag-1",
		Generation: 1,
		APIVersion: "catalog/v1",
		Kind:       "Component",
		Name:       "service-a",
	}

	entity, err := FromRow(row)
	require.NoError(t, err)

	assert.Nil(t, entity.Spec)
	assert.Equal(t, "service-a", entity.Metadata.Name)
	assert.Nil(t, entity.Metadata.Namespace)
}

func TestNamespaceKey(t *testing.T) {
	assert.Equal(t, "", namespaceKey(nil))

	ns := "team-a"
	assert.Equal(t, "team-a", namespaceKey(&ns))

	assert.Nil(t, namespaceFromKey(""))
	back := namespaceFromKey("team-a")
	require.NotNil(t, back)
	assert.Equal(t, "team-a", *back)
}
