package domain

import "strconv"

const (
	// MaxActiveJobs bounds both a technician's job list and a bay's technician list.
	MaxActiveJobs = 3

	// JobLoadShare is the technician load added per assigned job.
	JobLoadShare = 33
	// BayLoadShare is the bay load added per assigned job.
	BayLoadShare = 50
	// BayLoadCeiling is the load at which a bay stops accepting jobs.
	BayLoadCeiling = 90

	QueuedBay = "QUEUED"
)

type TechnicianStatus string

const (
	TechnicianAvailable TechnicianStatus = "Available"
	TechnicianBusy      TechnicianStatus = "Busy"
	TechnicianOffline   TechnicianStatus = "Offline"
)

type Technician struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Skill           Skill    `json:"skill" yaml:"skill"`
	ExperienceYears int      `json:"experienceYears" yaml:"experienceYears"`
	Rating          float64  `json:"rating" yaml:"rating"`
	LoadPercent     int      `json:"loadPercent" yaml:"-"`
	ActiveJobIDs    []string `json:"activeJobIds" yaml:"-"`
	OffShift        bool     `json:"offShift" yaml:"offShift"`
}

// Status is derived, never stored.
func (t *Technician) Status() TechnicianStatus {
	if t.OffShift {
		return TechnicianOffline
	}
	if len(t.ActiveJobIDs) == 0 {
		return TechnicianAvailable
	}
	return TechnicianBusy
}

func (t *Technician) HasCapacity() bool {
	return !t.OffShift && len(t.ActiveJobIDs) < MaxActiveJobs
}

// DeriveLoad sets LoadPercent from the job list, one JobLoadShare per job.
func (t *Technician) DeriveLoad() {
	t.LoadPercent = min(100, len(t.ActiveJobIDs)*JobLoadShare)
}

func (t *Technician) HoldsJob(orderID string) bool {
	for _, id := range t.ActiveJobIDs {
		if id == orderID {
			return true
		}
	}
	return false
}

func (t Technician) Clone() Technician {
	t.ActiveJobIDs = append([]string{}, t.ActiveJobIDs...)
	return t
}

type ServiceBay struct {
	ID                    string   `json:"id" yaml:"id"`
	BayNumber             int      `json:"bayNumber" yaml:"bayNumber"`
	BayType               string   `json:"bayType" yaml:"bayType"`
	AssignedTechnicianIDs []string `json:"assignedTechnicianIds" yaml:"-"`
	CurrentLoad           int      `json:"currentLoad" yaml:"currentLoad"`
}

func (b *ServiceBay) IsAvailable() bool {
	return len(b.AssignedTechnicianIDs) < MaxActiveJobs
}

func (b *ServiceBay) Label() string {
	return "Bay " + strconv.Itoa(b.BayNumber)
}

func (b *ServiceBay) HasTechnician(technicianID string) bool {
	for _, id := range b.AssignedTechnicianIDs {
		if id == technicianID {
			return true
		}
	}
	return false
}

func (b ServiceBay) Clone() ServiceBay {
	b.AssignedTechnicianIDs = append([]string{}, b.AssignedTechnicianIDs...)
	return b
}

type StockItem struct {
	PartName     string `json:"partName" yaml:"partName"`
	Quantity     int    `json:"quantity" yaml:"quantity"`
	MinimumStock int    `json:"minimumStock" yaml:"minimumStock"`
}

func (s *StockItem) IsLow() bool {
	return s.Quantity <= 0 || s.Quantity < s.MinimumStock
}

type TaskCatalogEntry struct {
	Name          string   `json:"name" yaml:"name"`
	BaseTimeHours float64  `json:"baseTimeHours" yaml:"baseTimeHours"`
	Category      Skill    `json:"category" yaml:"category"`
	RequiredParts []string `json:"requiredParts" yaml:"requiredParts"`
}
