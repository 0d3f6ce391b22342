package kd

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const shadowPrefix = "_kd_"

// shadowName returns the unqualified shadow table name.
func (t *Table) shadowName() string { return shadowPrefix + t.tableName }

// qualifiedShadow returns a fully-qualified shadow table name.
func (t *Table) qualifiedShadow() string {
	if strings.TrimSpace(t.dbName) == "" {
		return t.shadowName()
	}
	return t.dbName + "." + t.shadowName()
}

func (t *Table) schemaPrefix() string {
	if strings.TrimSpace(t.dbName) == "" {
		return ""
	}
	return t.dbName + "."
}

func tableNameFromShadow(shadow string) string {
	if shadow == "" {
		return ""
	}
	if i := strings.Index(shadow, "."+shadowPrefix); i >= 0 {
		return shadow[i+len("."+shadowPrefix):]
	}
	if strings.HasPrefix(shadow, shadowPrefix) {
		return strings.TrimPrefix(shadow, shadowPrefix)
	}
	return ""
}

// ensureShadow ensures the per-table shadow table and its invalidation
// triggers exist.
func (t *Table) ensureShadow(ctx context.Context) error {
	if t.db == nil {
		return fmt.Errorf("kd: db is nil")
	}
	trigBase := sanitizeName("trg_kd_" + t.shadowName())
	var present int
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %ssqlite_master WHERE type = 'trigger' AND name = ?`, t.schemaPrefix())
	if err := t.db.QueryRowContext(ctx, q, trigBase+"_del").Scan(&present); err == nil && present > 0 {
		return nil
	}

	name := t.qualifiedShadow()
	stmt := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    dataset_id TEXT NOT NULL,
    id TEXT NOT NULL,
    coords BLOB,
    PRIMARY KEY(dataset_id, id)
);
`, name)
	if _, err := t.db.ExecContext(ctx, stmt); err != nil {
		return err
	}
	// Triggers drop cached indexes for the touched datasets on any shadow change.
	shadowLit := quoteLiteral(name)
	invNew := `SELECT kd_invalidate(` + shadowLit + `, NEW.dataset_id);`
	invOld := `SELECT kd_invalidate(` + shadowLit + `, OLD.dataset_id);`
	trigger := t.schemaPrefix() + trigBase
	stmts := []string{
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s_ins AFTER INSERT ON %s BEGIN %s END;`, trigger, t.shadowName(), invNew),
		// Invalidate both NEW and OLD datasets (handles dataset moves).
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s_upd AFTER UPDATE ON %s BEGIN %s %s END;`, trigger, t.shadowName(), invNew, invOld),
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s_del AFTER DELETE ON %s BEGIN %s END;`, trigger, t.shadowName(), invOld),
	}
	for _, s := range stmts {
		if _, err := t.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func resolveDbPath(ctx context.Context, db *sql.DB, dbName string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("kd: db is nil")
	}
	rows, err := db.QueryContext(ctx, `SELECT name, file FROM pragma_database_list`)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	want := dbName
	if want == "" {
		want = "main"
	}
	for rows.Next() {
		var name, file string
		if err := rows.Scan(&name, &file); err != nil {
			return "", err
		}
		if name != want {
			continue
		}
		if file == "" {
			return name, nil
		}
		return file, nil
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return want, nil
}

func (t *Table) cachedDbPath(ctx context.Context) string {
	t.dbPathOnce.Do(func() {
		path, err := resolveDbPath(ctx, t.db, t.dbName)
		if err != nil {
			if t.dbName != "" {
				t.dbPath = t.dbName
			} else {
				t.dbPath = "main"
			}
			return
		}
		t.dbPath = path
	})
	return t.dbPath
}

// sanitizeName converts a qualified name into a safe identifier for triggers.
func sanitizeName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case '.', '-', ' ':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// quoteLiteral returns SQL string literal with single quotes escaped for safe embedding.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
