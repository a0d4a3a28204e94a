// Package store persists presets and saved variable values in sqlite.
package store

import (
	"errors"
	"fmt"

	"github.com/btouchard/fractalc/internal/compiler/resolver"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/npillmayer/schuko/tracing"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// tracer traces with key 'fractalc.store'.
func tracer() tracing.Trace {
	return tracing.Select("fractalc.store")
}

var (
	ErrPresetExists = errors.New("preset already exists")
	ErrNotFound     = errors.New("not found")
)

type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Preset{}, &VariableRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	tracer().Debugf("opened %s", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedPresets installs the default presets that were never added before.
// Presets the user deleted stay deleted.
func (s *Store) SeedPresets() (int, error) {
	created := 0
	for _, p := range DefaultPresets {
		var cnt int64
		if err := s.db.Unscoped().Model(&Preset{}).Where("name = ?", p.Name).Count(&cnt).Error; err != nil {
			return created, err
		}
		if cnt > 0 {
			continue
		}
		preset := p
		preset.Builtin = true
		if err := s.db.Create(&preset).Error; err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		tracer().Infof("seeded %d presets", created)
	}
	return created, nil
}

// Presets lists the live presets in creation order.
func (s *Store) Presets() ([]Preset, error) {
	var presets []Preset
	if err := s.db.Order("id").Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

// Preset finds a live preset by name.
func (s *Store) Preset(name string) (*Preset, error) {
	var p Preset
	err := s.db.Where("name = ?", name).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("preset %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddPreset stores a new preset. A previously deleted preset of the same
// name is brought back with the new equation.
func (s *Store) AddPreset(name, equation string) (*Preset, error) {
	p := &Preset{Name: name, Equation: equation}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var existing Preset
	err := s.db.Unscoped().Where("name = ?", name).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.Create(p).Error; err != nil {
			return nil, err
		}
		return p, nil
	case err != nil:
		return nil, err
	case existing.Deleted == 0:
		return nil, fmt.Errorf("preset %q: %w", name, ErrPresetExists)
	}

	if err := s.db.Unscoped().Model(&existing).Updates(map[string]interface{}{
		"equation": equation,
		"deleted":  0,
	}).Error; err != nil {
		return nil, err
	}
	existing.Equation = equation
	existing.Deleted = 0
	return &existing, nil
}

// DeletePreset soft-deletes a preset.
func (s *Store) DeletePreset(name string) error {
	res := s.db.Where("name = ?", name).Delete(&Preset{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("preset %q: %w", name, ErrNotFound)
	}
	return nil
}

// SaveRegistry replaces the saved variables of session with the contents
// of r.
func (s *Store) SaveRegistry(session string, r *resolver.Registry) error {
	snap := r.Snapshot()
	records := make([]VariableRecord, 0, len(snap))
	for _, name := range r.Names() {
		e := snap[name]
		records = append(records, VariableRecord{
			Session:  session,
			Name:     name,
			Real:     e.Value[0],
			Imag:     e.Value[1],
			Constant: e.Constant,
		})
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session = ?", session).Delete(&VariableRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

// LoadRegistry returns the saved variables of session. An unknown session
// gives an empty registry.
func (s *Store) LoadRegistry(session string) (*resolver.Registry, error) {
	var records []VariableRecord
	if err := s.db.Where("session = ?", session).Find(&records).Error; err != nil {
		return nil, err
	}
	entries := make(map[string]resolver.Entry, len(records))
	for _, rec := range records {
		entries[rec.Name] = resolver.Entry{
			Value:    mgl32.Vec2{rec.Real, rec.Imag},
			Constant: rec.Constant,
		}
	}
	r := resolver.NewRegistry()
	r.Restore(entries)
	return r, nil
}
