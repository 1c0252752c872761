package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ayusman/handjoints/internal/joints"
)

// Tracker setting keys.
const (
	SettingGroup            = "tracker.group"
	SettingConfidenceCutoff = "tracker.confidence_cutoff"
	SettingPrecision        = "tracker.precision"
)

// TrackerSettings are the user-adjustable tracker options.
type TrackerSettings struct {
	Group   joints.Group
	Options joints.Options
}

// SettingsRepository provides key-value access to application settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value for key or ErrNotFound.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set inserts or replaces a setting.
func (r *SettingsRepository) Set(key, value string) error {
	return setSetting(r.db, key, value)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setSetting(db execer, key, value string) error {
	_, err := db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// All returns every stored setting.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// LoadTrackerSettings overlays stored tracker settings on defaults.
func (r *SettingsRepository) LoadTrackerSettings(defaults TrackerSettings) (TrackerSettings, error) {
	all, err := r.All()
	if err != nil {
		return defaults, err
	}

	ts := defaults
	if v, ok := all[SettingGroup]; ok {
		g, err := joints.ParseGroup(v)
		if err != nil {
			return defaults, fmt.Errorf("setting %s: %w", SettingGroup, err)
		}
		ts.Group = g
	}
	if v, ok := all[SettingConfidenceCutoff]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return defaults, fmt.Errorf("setting %s: %w", SettingConfidenceCutoff, err)
		}
		ts.Options.ConfidenceCutoff = f
	}
	if v, ok := all[SettingPrecision]; ok {
		p, err := strconv.Atoi(v)
		if err != nil {
			return defaults, fmt.Errorf("setting %s: %w", SettingPrecision, err)
		}
		ts.Options.Precision = p
	}
	return ts, nil
}

// SaveTrackerSettings stores all tracker settings in one transaction.
func (r *SettingsRepository) SaveTrackerSettings(ts TrackerSettings) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	values := map[string]string{
		SettingGroup:            strconv.Itoa(int(ts.Group)),
		SettingConfidenceCutoff: strconv.FormatFloat(ts.Options.ConfidenceCutoff, 'f', -1, 64),
		SettingPrecision:        strconv.Itoa(ts.Options.Precision),
	}
	for k, v := range values {
		if err := setSetting(tx, k, v); err != nil {
			return err
		}
	}

	return tx.Commit()
}
