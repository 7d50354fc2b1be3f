package api

import "parkspot/internal/infra"

// Read-side queries surface repository errors directly.
func isNotFound(err error) bool {
	return infra.IsKind(err, infra.KindNotFound)
}
