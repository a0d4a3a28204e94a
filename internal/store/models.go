package store

import (
	"fmt"

	"github.com/btouchard/fractalc/internal/compiler"
	"gorm.io/plugin/soft_delete"
)

// Preset is a named equation offered in the equation picker.
type Preset struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Name      string `gorm:"uniqueIndex" json:"name"`
	Equation  string `json:"equation"`
	Builtin   bool   `gorm:"default:false" json:"builtin"`
	CreatedAt int64  `gorm:"autoCreateTime" json:"createdAt"`
	/* 0 false 1 true */
	Deleted soft_delete.DeletedAt `gorm:"softDelete:flag;default:0" json:"-"`
}

// Validate checks the name and that the equation translates.
func (p *Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name: must not be empty")
	}
	if len(p.Name) > 64 {
		return fmt.Errorf("name: maximum length is 64, got %d", len(p.Name))
	}
	if _, err := compiler.Translate(p.Equation); err != nil {
		return fmt.Errorf("equation: %w", err)
	}
	return nil
}

// VariableRecord is one saved registry entry of a named session.
type VariableRecord struct {
	ID       uint   `gorm:"primarykey"`
	Session  string `gorm:"index:idx_session_name,unique"`
	Name     string `gorm:"index:idx_session_name,unique"`
	Real     float32
	Imag     float32
	Constant bool
}

func (VariableRecord) TableName() string {
	return "variables"
}

// DefaultPresets are the equations installed by SeedPresets.
var DefaultPresets = []Preset{
	{Name: "Mandelbrot", Equation: "z^2 + c"},
	{Name: "Julia", Equation: "z^2 + juliaC"},
	{Name: "Newton", Equation: "z - (z^3 - 1) / (3*z^2)"},
	{Name: "Burning Ship", Equation: "abs(z)^2 - c"},
	{Name: "Tricorn", Equation: "conj(z) ^ 2 + c"},
	{Name: "Sine", Equation: "sin(z) + c"},
	{Name: "Cosine", Equation: "cos(z) + c"},
	{Name: "Exponential", Equation: "exp(z) + c"},
}
