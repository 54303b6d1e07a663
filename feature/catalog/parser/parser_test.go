package parser

import (
	"errors"
	"testing"

	"catalog-manager/feature/catalog/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidDescriptor(t *testing.T) {
	payload := []byte(`
apiVersion: catalog/v1
kind: Component
metadata:
  name: service-a
  namespace: team-a
  labels:
    env: prod
  annotations:
    example.com/source: git
spec:
  owner: team-a
  lifecycle: production
  replicas: 3
`)

	entity, err := New().Parse(payload)
	require.NoError(t, err)

	assert.Equal(t, "catalog/v1", entity.APIVersion)
	assert.Equal(t, "Component", entity.Kind)
	assert.Equal(t, "service-a", entity.Metadata.Name)
	require.NotNil(t, entity.Metadata.Namespace)
	assert.Equal(t, "team-a", *entity.Metadata.Namespace)
	assert.Equal(t, "prod", entity.Metadata.Labels["env"])
	assert.Equal(t, "git", entity.Metadata.Annotations["example.com/source"])
	assert.Equal(t, "team-a", entity.Spec["owner"])
	assert.Equal(t, 3, entity.Spec["replicas"])
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := New().Parse([]byte("{not yaml: ["))
	require.Error(t, err)

	var parseErr *ingest.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Empty(t, parseErr.EntityName)
}

func TestParse_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"NoAPIVersion", "kind: Component\nmetadata:\n  name: x\n"},
		{"NoKind", "apiVersion: catalog/v1\nmetadata:\n  name: x\n"},
		{"NoMetadata", "apiVersion: catalog/v1\nkind: Component\n"},
		{"NoName", "apiVersion: catalog/v1\nkind: Component\nmetadata:\n  namespace: team-a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse([]byte(tt.payload))
			var parseErr *ingest.ParseError
			require.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestParse_RejectsStoreManagedFields(t *testing.T) {
	payload := []byte(`
apiVersion: catalog/v1
kind: Component
metadata:
  name: service-a
  uid: spoofed-uid
`)

	_, err := New().Parse(payload)
	require.Error(t, err)

	// The name is recovered for log attribution even though parsing failed.
	var parseErr *ingest.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "service-a", parseErr.EntityName)
}
