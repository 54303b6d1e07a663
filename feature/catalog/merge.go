package catalog

import "catalog-manager/feature/catalog/models"

// Merge reconciles a freshly read entity with its previously stored
// counterpart. It is used when a refresh targets an entity that already
// exists.
//
// Precedence is an explicit, ordered sequence of assignments rather than
// a generic recursive merge, because the tie-break direction differs
// between fields:
//
//  1. Everything starts from a deep copy of incoming: its spec, kind,
//     apiVersion and name/namespace win by default, so a moved source of
//     truth can fully replace the declared shape on each pass.
//  2. uid and generation are pinned from base; identity and version are
//     never taken from freshly parsed input.
//  3. Annotation keys present only in base survive, but on collision the
//     incoming value wins. Annotations may be added out-of-band and must
//     not be dropped by a refresh.
func Merge(base, incoming *models.Entity) *models.Entity {
	merged := incoming.Clone()

	if base == nil || base.Metadata == nil {
		return merged
	}
	if merged.Metadata == nil {
		merged.Metadata = &models.Metadata{}
	}

	merged.Metadata.UID = base.Metadata.UID
	merged.Metadata.Generation = base.Metadata.Generation

	if len(base.Metadata.Annotations) > 0 {
		annotations := make(map[string]string, len(base.Metadata.Annotations)+len(merged.Metadata.Annotations))
		for k, v := range base.Metadata.Annotations {
			annotations[k] = v
		}
		for k, v := range merged.Metadata.Annotations {
			annotations[k] = v
		}
		merged.Metadata.Annotations = annotations
	}

	return merged
}
