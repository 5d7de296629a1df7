package catalog

import (
	"autobay/domain"
	"sort"
	"strings"
	"sync"
)

// Catalog resolves predefined service tasks by name.
type Catalog interface {
	Lookup(name string) (domain.TaskCatalogEntry, bool)
	Entries() []domain.TaskCatalogEntry
}

// MemoryCatalog is keyed by the lower-cased, trimmed task name.
type MemoryCatalog struct {
	lock    sync.RWMutex
	entries map[string]domain.TaskCatalogEntry
}

func NewMemoryCatalog(entries []domain.TaskCatalogEntry) *MemoryCatalog {
	c := &MemoryCatalog{entries: map[string]domain.TaskCatalogEntry{}}
	for _, e := range entries {
		c.Put(e)
	}
	return c
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *MemoryCatalog) Put(entry domain.TaskCatalogEntry) {
	if entry.Category == "" {
		entry.Category = domain.SkillGeneral
	}
	entry.RequiredParts = append([]string{}, entry.RequiredParts...)

	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries[key(entry.Name)] = entry
}

func (c *MemoryCatalog) Lookup(name string) (domain.TaskCatalogEntry, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	e, found := c.entries[key(name)]
	if !found {
		return domain.TaskCatalogEntry{}, false
	}
	e.RequiredParts = append([]string{}, e.RequiredParts...)
	return e, true
}

func (c *MemoryCatalog) Entries() []domain.TaskCatalogEntry {
	c.lock.RLock()
	defer c.lock.RUnlock()
	r := make([]domain.TaskCatalogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		e.RequiredParts = append([]string{}, e.RequiredParts...)
		r = append(r, e)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Name < r[j].Name })
	return r
}

var DefaultEntries = []domain.TaskCatalogEntry{
	{Name: "Oil Change", BaseTimeHours: 0.5, Category: domain.SkillGeneral, RequiredParts: []string{"Engine Oil", "Oil Filter"}},
	{Name: "Tire Rotation", BaseTimeHours: 0.75, Category: domain.SkillGeneral},
	{Name: "General Inspection", BaseTimeHours: 1, Category: domain.SkillGeneral},
	{Name: "Brake Pad Replacement", BaseTimeHours: 1.5, Category: domain.SkillBrake, RequiredParts: []string{"Brake Pads"}},
	{Name: "Brake Fluid Flush", BaseTimeHours: 1, Category: domain.SkillBrake, RequiredParts: []string{"Brake Fluid"}},
	{Name: "Engine Diagnostics", BaseTimeHours: 2, Category: domain.SkillEngine},
	{Name: "Timing Belt Replacement", BaseTimeHours: 4, Category: domain.SkillEngine, RequiredParts: []string{"Timing Belt", "Coolant"}},
	{Name: "Spark Plug Replacement", BaseTimeHours: 1, Category: domain.SkillEngine, RequiredParts: []string{"Spark Plugs"}},
	{Name: "AC Recharge", BaseTimeHours: 1.5, Category: domain.SkillAC, RequiredParts: []string{"Refrigerant"}},
	{Name: "AC Compressor Repair", BaseTimeHours: 3, Category: domain.SkillAC, RequiredParts: []string{"Refrigerant", "AC Compressor"}},
	{Name: "Battery Replacement", BaseTimeHours: 0.5, Category: domain.SkillElectrical, RequiredParts: []string{"Battery"}},
	{Name: "Wiring Repair", BaseTimeHours: 2.5, Category: domain.SkillElectrical},
	{Name: "Shock Absorber Replacement", BaseTimeHours: 2, Category: domain.SkillSuspension, RequiredParts: []string{"Shock Absorber"}},
	{Name: "Dent Repair", BaseTimeHours: 3, Category: domain.SkillBody},
}

func NewDefaultCatalog() *MemoryCatalog {
	return NewMemoryCatalog(DefaultEntries)
}
