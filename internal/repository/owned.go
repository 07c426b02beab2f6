package repository

import (
	"context"
	"fmt"
)

// Every per-row query in this package filters by (id, owner_id). A row
// owned by another user is indistinguishable from a missing row, so
// cross-user access can never be detected from the outside.

// deleteOwned hard-deletes a row scoped to its owner. Returns notFound
// when no row matched, whether the id is unknown or owned by someone else.
func (r *Repository) deleteOwned(ctx context.Context, table, id, ownerID string, notFound error) error {
	// table is always a compile-time constant from this package.
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, table)

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	if result.RowsAffected() == 0 {
		return notFound
	}

	return nil
}
