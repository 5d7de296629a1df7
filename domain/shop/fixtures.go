package shop

import (
	"autobay/domain"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixtures seeds the shop: the initial technicians, bays and stock, and
// optionally task catalog entries.
type Fixtures struct {
	Technicians []domain.Technician       `yaml:"technicians"`
	Bays        []domain.ServiceBay       `yaml:"bays"`
	Stock       []domain.StockItem        `yaml:"stock"`
	Tasks       []domain.TaskCatalogEntry `yaml:"tasks"`
}

func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var parsed Fixtures
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("fixtures: parse: %w", err)
	}
	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	return &parsed, nil
}

func (f *Fixtures) applyDefaults() {
	for i := range f.Technicians {
		t := &f.Technicians[i]
		t.ID = strings.TrimSpace(t.ID)
		if t.Skill == "" {
			t.Skill = domain.SkillGeneral
		}
		if t.Name == "" {
			t.Name = t.ID
		}
	}
	for i := range f.Bays {
		b := &f.Bays[i]
		b.ID = strings.TrimSpace(b.ID)
		if b.BayType == "" {
			b.BayType = "General"
		}
	}
	for i := range f.Tasks {
		if f.Tasks[i].Category == "" {
			f.Tasks[i].Category = domain.SkillGeneral
		}
	}
}

func (f *Fixtures) validate() error {
	if len(f.Technicians) == 0 {
		return errors.New("at least one technician is required")
	}
	if len(f.Bays) == 0 {
		return errors.New("at least one service bay is required")
	}

	ids := map[string]bool{}
	for _, t := range f.Technicians {
		if t.ID == "" {
			return errors.New("technician id is required")
		}
		if ids[t.ID] {
			return fmt.Errorf("duplicated technician id '%s'", t.ID)
		}
		ids[t.ID] = true
		if _, err := domain.ParseSkill(string(t.Skill)); err != nil {
			return fmt.Errorf("technician '%s': %w", t.ID, err)
		}
		if t.Rating < 0 || t.Rating > 5 {
			return fmt.Errorf("technician '%s': rating must be within 0-5", t.ID)
		}
	}

	ids = map[string]bool{}
	numbers := map[int]bool{}
	for _, b := range f.Bays {
		if b.ID == "" {
			return errors.New("service bay id is required")
		}
		if ids[b.ID] || numbers[b.BayNumber] {
			return fmt.Errorf("duplicated service bay '%s' (number %d)", b.ID, b.BayNumber)
		}
		ids[b.ID] = true
		numbers[b.BayNumber] = true
		if b.CurrentLoad < 0 || b.CurrentLoad > 100 {
			return fmt.Errorf("service bay '%s': current load must be within 0-100", b.ID)
		}
	}

	parts := map[string]bool{}
	for _, s := range f.Stock {
		if s.PartName == "" {
			return errors.New("stock part name is required")
		}
		if parts[s.PartName] {
			return fmt.Errorf("duplicated stock part '%s'", s.PartName)
		}
		parts[s.PartName] = true
		if s.Quantity < 0 || s.MinimumStock < 0 {
			return fmt.Errorf("stock part '%s': quantities must not be negative", s.PartName)
		}
	}

	for _, task := range f.Tasks {
		if task.Name == "" {
			return errors.New("task name is required")
		}
		if task.BaseTimeHours <= 0 {
			return fmt.Errorf("task '%s': base time must be positive", task.Name)
		}
		if _, err := domain.ParseSkill(string(task.Category)); err != nil {
			return fmt.Errorf("task '%s': %w", task.Name, err)
		}
	}
	return nil
}

func DefaultFixtures() *Fixtures {
	return &Fixtures{
		Technicians: []domain.Technician{
			{ID: "eng-ravi", Name: "Ravi Kumar", Skill: domain.SkillEngine, ExperienceYears: 12, Rating: 4.8},
			{ID: "eng-lena", Name: "Lena Park", Skill: domain.SkillEngine, ExperienceYears: 6, Rating: 4.4},
			{ID: "brk-omar", Name: "Omar Haddad", Skill: domain.SkillBrake, ExperienceYears: 8, Rating: 4.6},
			{ID: "brk-sofia", Name: "Sofia Marin", Skill: domain.SkillBrake, ExperienceYears: 3, Rating: 4.1},
			{ID: "acs-jun", Name: "Jun Tanaka", Skill: domain.SkillAC, ExperienceYears: 9, Rating: 4.5},
			{ID: "ele-amara", Name: "Amara Obi", Skill: domain.SkillElectrical, ExperienceYears: 7, Rating: 4.7},
			{ID: "gen-mateo", Name: "Mateo Ruiz", Skill: domain.SkillGeneral, ExperienceYears: 4, Rating: 4.2},
			{ID: "gen-noor", Name: "Noor Aziz", Skill: domain.SkillGeneral, ExperienceYears: 2, Rating: 3.9},
		},
		Bays: []domain.ServiceBay{
			{ID: "bay-1", BayNumber: 1, BayType: "General"},
			{ID: "bay-2", BayNumber: 2, BayType: "Lift"},
			{ID: "bay-3", BayNumber: 3, BayType: "Diagnostic"},
			{ID: "bay-4", BayNumber: 4, BayType: "Body"},
		},
		Stock: []domain.StockItem{
			{PartName: "Engine Oil", Quantity: 40, MinimumStock: 10},
			{PartName: "Oil Filter", Quantity: 25, MinimumStock: 8},
			{PartName: "Brake Pads", Quantity: 12, MinimumStock: 4},
			{PartName: "Brake Fluid", Quantity: 10, MinimumStock: 3},
			{PartName: "Timing Belt", Quantity: 4, MinimumStock: 2},
			{PartName: "Coolant", Quantity: 15, MinimumStock: 5},
			{PartName: "Spark Plugs", Quantity: 30, MinimumStock: 8},
			{PartName: "Refrigerant", Quantity: 8, MinimumStock: 3},
			{PartName: "AC Compressor", Quantity: 2, MinimumStock: 1},
			{PartName: "Battery", Quantity: 6, MinimumStock: 2},
			{PartName: "Shock Absorber", Quantity: 8, MinimumStock: 4},
		},
	}
}
