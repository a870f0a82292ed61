// Package backup writes the catalog and plans into a standalone SQLite file
// and optionally ships it to S3.
package backup

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
	"github.com/media2net-app/mihaelafitness/internal/store"
)

// Info describes a written snapshot.
type Info struct {
	Path        string    `json:"path"`
	Checksum    string    `json:"checksum"`
	SizeBytes   int64     `json:"size_bytes"`
	Ingredients int       `json:"ingredients"`
	Plans       int       `json:"plans"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrExists is returned when the output file is already there and overwrite is off.
var ErrExists = errors.New("backup file already exists")

const schema = `
CREATE TABLE ingredients (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	name_localized TEXT NOT NULL DEFAULT '',
	per TEXT NOT NULL,
	calories REAL NOT NULL, protein REAL NOT NULL, carbs REAL NOT NULL,
	fat REAL NOT NULL, fiber REAL NOT NULL, sugar REAL NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	aliases TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE nutrition_plans (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	calories INTEGER NOT NULL, protein REAL NOT NULL, carbs REAL NOT NULL, fat REAL NOT NULL,
	week_menu TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE snapshot_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL);
`

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}

// WriteSQLite writes ingredients and plans into a new SQLite file at path and
// a sibling .sha256 checksum file.
func WriteSQLite(ctx context.Context, path string, ingredients []nutrition.Ingredient, plans []store.NutritionPlan, overwrite bool) (Info, error) {
	if strings.TrimSpace(path) == "" {
		return Info{}, fmt.Errorf("backup output path is required")
	}
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return Info{}, fmt.Errorf("%s: %w", path, ErrExists)
		}
		if err := os.Remove(path); err != nil {
			return Info{}, fmt.Errorf("remove old backup: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Info{}, fmt.Errorf("create backup directory: %w", err)
	}

	db, err := open(path)
	if err != nil {
		return Info{}, err
	}
	if err := fill(ctx, db, ingredients, plans); err != nil {
		db.Close()
		return Info{}, err
	}
	if err := db.Close(); err != nil {
		return Info{}, fmt.Errorf("close sqlite database: %w", err)
	}

	checksum, err := fileSHA256(path)
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(path+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return Info{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat backup: %w", err)
	}
	return Info{
		Path:        path,
		Checksum:    checksum,
		SizeBytes:   st.Size(),
		Ingredients: len(ingredients),
		Plans:       len(plans),
		CreatedAt:   st.ModTime(),
	}, nil
}

func fill(ctx context.Context, db *sql.DB, ingredients []nutrition.Ingredient, plans []store.NutritionPlan) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	for _, ing := range ingredients {
		aliases, err := json.Marshal(ing.Aliases)
		if err != nil {
			return fmt.Errorf("encode aliases of %s: %w", ing.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ingredients (id, name, name_localized, per, calories, protein, carbs, fat, fiber, sugar, category, aliases)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ing.ID, ing.Name, ing.NameLocalized, ing.Per, ing.Calories, ing.Protein, ing.Carbs,
			ing.Fat, ing.Fiber, ing.Sugar, ing.Category, string(aliases)); err != nil {
			return fmt.Errorf("insert ingredient %s: %w", ing.ID, err)
		}
	}

	for _, p := range plans {
		menu, err := json.Marshal(p.WeekMenu)
		if err != nil {
			return fmt.Errorf("encode week menu of %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nutrition_plans (id, name, description, calories, protein, carbs, fat, week_menu, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Description, p.Calories, p.Protein, p.Carbs, p.Fat, string(menu),
			p.UpdatedAt.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("insert plan %s: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (key, value) VALUES ('created_at', ?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}
	return tx.Commit()
}

// ReadSQLite loads a snapshot back, for verification and restores.
func ReadSQLite(ctx context.Context, path string) ([]nutrition.Ingredient, []store.NutritionPlan, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("open backup: %w", err)
	}
	db, err := open(path)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, name, name_localized, per, calories, protein, carbs, fat, fiber, sugar, category, aliases
		 FROM ingredients ORDER BY lower(name), id`)
	if err != nil {
		return nil, nil, fmt.Errorf("query ingredients: %w", err)
	}
	ingredients := []nutrition.Ingredient{}
	for rows.Next() {
		var ing nutrition.Ingredient
		var aliases string
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.NameLocalized, &ing.Per, &ing.Calories, &ing.Protein,
			&ing.Carbs, &ing.Fat, &ing.Fiber, &ing.Sugar, &ing.Category, &aliases); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan ingredient: %w", err)
		}
		if err := json.Unmarshal([]byte(aliases), &ing.Aliases); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("decode aliases of %s: %w", ing.ID, err)
		}
		ing.Normalize()
		ingredients = append(ingredients, ing)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	prows, err := db.QueryContext(ctx,
		`SELECT id, name, description, calories, protein, carbs, fat, week_menu, updated_at
		 FROM nutrition_plans ORDER BY name, id`)
	if err != nil {
		return nil, nil, fmt.Errorf("query plans: %w", err)
	}
	defer prows.Close()
	plans := []store.NutritionPlan{}
	for prows.Next() {
		var p store.NutritionPlan
		var menu, updated string
		if err := prows.Scan(&p.ID, &p.Name, &p.Description, &p.Calories, &p.Protein, &p.Carbs, &p.Fat, &menu, &updated); err != nil {
			return nil, nil, fmt.Errorf("scan plan: %w", err)
		}
		if err := json.Unmarshal([]byte(menu), &p.WeekMenu); err != nil {
			return nil, nil, fmt.Errorf("decode week menu of %s: %w", p.ID, err)
		}
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			p.UpdatedAt = t
		}
		plans = append(plans, p)
	}
	return ingredients, plans, prows.Err()
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
