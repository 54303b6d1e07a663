package models

// Entity is the canonical catalog record: a versioned envelope with an
// opaque spec payload. The store treats apiVersion, kind and spec as
// opaque; only metadata carries store-managed fields.
type Entity struct {
	// APIVersion identifies the schema variant (e.g. "backstage.io/v1alpha1").
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`

	// Kind identifies the entity kind (e.g. "Component").
	Kind string `json:"kind" yaml:"kind"`

	// Metadata carries identity, versioning, and free-form labels/annotations.
	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Spec is an arbitrary structured payload, persisted verbatim.
	Spec map[string]any `json:"spec,omitempty" yaml:"spec,omitempty"`
}

// Metadata holds the entity metadata block.
//
// UID, Etag and Generation are store-managed: they are assigned by the
// entity store and never taken from caller-supplied input on write.
type Metadata struct {
	// UID is the globally unique identity of the entity, assigned by the
	// store on creation and immutable afterwards.
	UID string `json:"uid,omitempty" yaml:"uid,omitempty"`

	// Etag is an opaque concurrency token regenerated on every write.
	Etag string `json:"etag,omitempty" yaml:"etag,omitempty"`

	// Generation is the monotonic version counter. Starts at 1 and
	// increases by exactly 1 on every successful update.
	Generation int64 `json:"generation,omitempty" yaml:"generation,omitempty"`

	// Name is the entity name, required for persistence.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Namespace is the optional grouping. A nil namespace is a valid,
	// distinct partition key.
	Namespace *string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Labels are unconstrained key/value pairs.
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// Annotations are unconstrained key/value pairs that may be added
	// out-of-band and survive refreshes through the merge rules.
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// Clone returns a deep copy of the entity. The spec payload is copied
// recursively so mutations of the clone never leak into the original.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := &Entity{
		APIVersion: e.APIVersion,
		Kind:       e.Kind,
		Metadata:   e.Metadata.Clone(),
	}
	if e.Spec != nil {
		out.Spec = copyMap(e.Spec)
	}
	return out
}

// Clone returns a deep copy of the metadata block.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	out := &Metadata{
		UID:        m.UID,
		Etag:       m.Etag,
		Generation: m.Generation,
		Name:       m.Name,
	}
	if m.Namespace != nil {
		ns := *m.Namespace
		out.Namespace = &ns
	}
	if m.Labels != nil {
		out.Labels = make(map[string]string, len(m.Labels))
		for k, v := range m.Labels {
			out.Labels[k] = v
		}
	}
	if m.Annotations != nil {
		out.Annotations = make(map[string]string, len(m.Annotations))
		for k, v := range m.Annotations {
			out.Annotations[k] = v
		}
	}
	return out
}

// copyMap deep-copies a decoded JSON/YAML object tree.
func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		// Scalars (string, bool, numbers, nil) are immutable.
		return val
	}
}
