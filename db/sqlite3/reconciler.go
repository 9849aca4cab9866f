package sqlite3

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Reconciler repairs the secondary indexes on the engagements table to the
// declared partial-uniqueness shape: one conditional unique index per target
// kind, scoped to rows where that kind's reference column is populated. It
// is idempotent and safe to run against a populated, live table; it runs
// out-of-band, never on the request path.
type Reconciler struct {
	db *sql.DB
}

func NewReconciler(db *sql.DB) *Reconciler {
	return &Reconciler{db: db}
}

type ReconcileReport struct {
	DroppedIndexes    []string
	CreatedIndexes    []string
	RemovedDuplicates int64
}

func (report ReconcileReport) Changed() bool {
	return len(report.DroppedIndexes) > 0 ||
		len(report.CreatedIndexes) > 0 ||
		report.RemovedDuplicates > 0
}

type engagementIndex struct {
	name      string
	refColumn string
}

func engagementUniqueIndexes() []engagementIndex {
	return []engagementIndex{
		{name: "ux_engagements_video_user", refColumn: engagementFieldVideoID},
		{name: "ux_engagements_comment_user", refColumn: engagementFieldCommentID},
		{name: "ux_engagements_tweet_user", refColumn: engagementFieldTweetID},
	}
}

func (idx engagementIndex) createSQL() string {
	return fmt.Sprintf(
		"CREATE UNIQUE INDEX %s ON %s (%s, %s) WHERE %s IS NOT NULL",
		idx.name,
		tableEngagements,
		idx.refColumn,
		engagementFieldUserID,
		idx.refColumn,
	)
}

// Reconcile diff-inspects the current index set against the declared target
// shape and applies only the missing pieces. Any other unique index on the
// table is a legacy constraint shape and gets dropped; plain lookup indexes
// are left alone. Before creating a missing unique index it removes the
// duplicate rows that would block it, keeping the oldest row of each
// (target, user) pair.
func (r *Reconciler) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	existing, err := r.existingIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect existing indexes: %w", err)
	}

	targets := make(map[string]engagementIndex)
	for _, idx := range engagementUniqueIndexes() {
		targets[idx.name] = idx
	}

	var report ReconcileReport

	names := make([]string, 0, len(existing))
	for name := range existing {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		definition := normalizeIndexSQL(existing[name])

		if target, ok := targets[name]; ok {
			if strings.EqualFold(definition, normalizeIndexSQL(target.createSQL())) {
				continue
			}
		} else if !strings.HasPrefix(strings.ToUpper(definition), "CREATE UNIQUE INDEX") {
			continue
		}

		// Either a target index with the wrong shape, or a leftover unique
		// constraint from an earlier schema generation.
		_, err := r.db.ExecContext(ctx, "DROP INDEX "+name)
		if err != nil {
			return nil, fmt.Errorf("failed to drop index %q: %w", name, err)
		}

		delete(existing, name)

		report.DroppedIndexes = append(report.DroppedIndexes, name)
	}

	for _, idx := range engagementUniqueIndexes() {
		if _, ok := existing[idx.name]; ok {
			continue
		}

		removed, err := r.removeDuplicates(ctx, idx.refColumn)
		if err != nil {
			return nil, fmt.Errorf("failed to remove duplicate %s engagements: %w", idx.refColumn, err)
		}

		report.RemovedDuplicates += removed

		_, err = r.db.ExecContext(ctx, idx.createSQL())
		if err != nil {
			return nil, fmt.Errorf("failed to create index %q: %w", idx.name, err)
		}

		report.CreatedIndexes = append(report.CreatedIndexes, idx.name)
	}

	if report.Changed() {
		slog.InfoContext(ctx, "engagement indexes reconciled",
			"dropped", report.DroppedIndexes,
			"created", report.CreatedIndexes,
			"removed_duplicates", report.RemovedDuplicates,
		)
	}

	return &report, nil
}

// existingIndexes returns name -> definition for the table's named indexes.
// Implicit autoindexes carry a NULL sql and are excluded.
func (r *Reconciler) existingIndexes(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(
		ctx,
		"SELECT name, sql FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND sql IS NOT NULL",
		tableEngagements,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sqlite_master: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close index rows", "error", err)
		}
	}()

	indexes := make(map[string]string)

	for rows.Next() {
		var name, definition string

		err := rows.Scan(&name, &definition)
		if err != nil {
			return nil, fmt.Errorf("failed to scan index row: %w", err)
		}

		indexes[name] = definition
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate index rows: %w", err)
	}

	return indexes, nil
}

// removeDuplicates deletes all but the oldest engagement of each
// (refColumn, user) pair, so the unique index can be built over live data.
func (r *Reconciler) removeDuplicates(ctx context.Context, refColumn string) (int64, error) {
	query := fmt.Sprintf(`
DELETE FROM engagements
WHERE %[1]s IS NOT NULL
  AND EXISTS (
    SELECT 1 FROM engagements AS keeper
    WHERE keeper.%[1]s = engagements.%[1]s
      AND keeper.user_id = engagements.user_id
      AND (
        keeper.created_at < engagements.created_at
        OR (keeper.created_at = engagements.created_at AND keeper.id < engagements.id)
      )
  )
`, refColumn)

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to exec duplicate cleanup: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return removed, nil
}

func normalizeIndexSQL(definition string) string {
	definition = strings.ReplaceAll(definition, `"`, "")

	return strings.Join(strings.Fields(definition), " ")
}
