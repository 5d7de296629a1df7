package domain

import (
	"fmt"
	"strings"
)

func parseOrdinal(kind string, text []byte, names []string) (int, error) {
	s := strings.TrimSpace(string(text))
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s '%s', expected one of %s", kind, s, strings.Join(names, ", "))
}

func ordinalName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("Unknown(%d)", i)
	}
	return names[i]
}

// Skill is the technician specialization a task requires.
type Skill string

const (
	SkillGeneral    Skill = "General"
	SkillEngine     Skill = "Engine"
	SkillBrake      Skill = "Brake"
	SkillAC         Skill = "AC"
	SkillElectrical Skill = "Electrical"
	SkillSuspension Skill = "Suspension"
	SkillBody       Skill = "Body"
)

var Skills = []Skill{SkillGeneral, SkillEngine, SkillBrake, SkillAC, SkillElectrical, SkillSuspension, SkillBody}

func ParseSkill(s string) (Skill, error) {
	for _, skill := range Skills {
		if strings.EqualFold(strings.TrimSpace(s), string(skill)) {
			return skill, nil
		}
	}
	return "", fmt.Errorf("unknown skill '%s'", s)
}

func (s Skill) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *Skill) UnmarshalText(text []byte) error {
	parsed, err := ParseSkill(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// RustLevel and DamageLevel share the same ordinal scale but are weighted differently.
type RustLevel uint8

const (
	RustNone RustLevel = iota
	RustMinor
	RustModerate
	RustSevere
)

var (
	severityNames = []string{"None", "Minor", "Moderate", "Severe"}
	rustWeights   = [...]float64{0, 0.1, 0.2, 0.4}
	damageWeights = [...]float64{0, 0.05, 0.15, 0.3}
)

func (l RustLevel) Weight() float64 { return rustWeights[l] }
func (l RustLevel) String() string  { return ordinalName(severityNames, int(l)) }

func (l RustLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *RustLevel) UnmarshalText(text []byte) error {
	i, err := parseOrdinal("rust level", text, severityNames)
	if err != nil {
		return err
	}
	*l = RustLevel(i)
	return nil
}

type DamageLevel uint8

const (
	DamageNone DamageLevel = iota
	DamageMinor
	DamageModerate
	DamageSevere
)

func (l DamageLevel) Weight() float64 { return damageWeights[l] }
func (l DamageLevel) String() string  { return ordinalName(severityNames, int(l)) }

func (l DamageLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *DamageLevel) UnmarshalText(text []byte) error {
	i, err := parseOrdinal("body damage", text, severityNames)
	if err != nil {
		return err
	}
	*l = DamageLevel(i)
	return nil
}

type ServicePackage uint8

const (
	PackageBasic ServicePackage = iota
	PackageStandard
	PackagePremium
)

var (
	packageNames   = []string{"Basic", "Standard", "Premium"}
	packageWeights = [...]float64{0, 0.05, 0.12}
)

func (p ServicePackage) Weight() float64 { return packageWeights[p] }
func (p ServicePackage) String() string  { return ordinalName(packageNames, int(p)) }

func (p ServicePackage) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *ServicePackage) UnmarshalText(text []byte) error {
	i, err := parseOrdinal("service package", text, packageNames)
	if err != nil {
		return err
	}
	*p = ServicePackage(i)
	return nil
}

type ApprovalSpeed uint8

const (
	ApprovalFast ApprovalSpeed = iota
	ApprovalNormal
	ApprovalSlow
)

var (
	approvalNames   = []string{"Fast", "Normal", "Slow"}
	approvalWeights = [...]float64{0, 0.05, 0.15}
)

func (a ApprovalSpeed) Weight() float64 { return approvalWeights[a] }
func (a ApprovalSpeed) String() string  { return ordinalName(approvalNames, int(a)) }

func (a ApprovalSpeed) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ApprovalSpeed) UnmarshalText(text []byte) error {
	i, err := parseOrdinal("approval speed", text, approvalNames)
	if err != nil {
		return err
	}
	*a = ApprovalSpeed(i)
	return nil
}

type AppointmentType uint8

const (
	AppointmentScheduled AppointmentType = iota
	AppointmentWalkIn
)

var (
	appointmentNames   = []string{"Scheduled", "WalkIn"}
	appointmentWeights = [...]float64{0, 0.1}
)

func (a AppointmentType) Weight() float64 { return appointmentWeights[a] }
func (a AppointmentType) String() string  { return ordinalName(appointmentNames, int(a)) }

func (a AppointmentType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AppointmentType) UnmarshalText(text []byte) error {
	i, err := parseOrdinal("appointment type", text, appointmentNames)
	if err != nil {
		return err
	}
	*a = AppointmentType(i)
	return nil
}

type Weather uint8

const (
	WeatherClear Weather = iota
	WeatherRain
	WeatherExtreme
)

var (
	weatherNames   = []string{"Clear", "Rain", "Extreme"}
	weatherWeights = [...]float64{0, 0.05, 0.12}
)

func (w Weather) Weight() float64 { return weatherWeights[w] }
func (w Weather) String() string  { return ordinalName(weatherNames, int(w)) }

func (w Weather) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Weather) UnmarshalText(text []byte) error {
	i, err := parseOrdinal("weather", text, weatherNames)
	if err != nil {
		return err
	}
	*w = Weather(i)
	return nil
}

type FuelType uint8

const (
	FuelPetrol FuelType = iota
	FuelDiesel
	FuelHybrid
	FuelElectric
)

var fuelNames = []string{"Petrol", "Diesel", "Hybrid", "Electric"}

func (f FuelType) String() string { return ordinalName(fuelNames, int(f)) }

func (f FuelType) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FuelType) UnmarshalText(text []byte) error {
	i, err := parseOrdinal("fuel type", text, fuelNames)
	if err != nil {
		return err
	}
	*f = FuelType(i)
	return nil
}
