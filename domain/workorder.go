package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fundwit/go-commons/types"
)

type WorkOrderStatus string

const (
	StatusQueued     WorkOrderStatus = "Queued"
	StatusInProgress WorkOrderStatus = "InProgress"
	StatusCompleting WorkOrderStatus = "Completing"
	StatusCompleted  WorkOrderStatus = "Completed"
)

var WorkOrderStatuses = []WorkOrderStatus{StatusQueued, StatusInProgress, StatusCompleting, StatusCompleted}

func ParseWorkOrderStatus(s string) (WorkOrderStatus, error) {
	for _, v := range WorkOrderStatuses {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown work order status '%s'", s)
}

type Vehicle struct {
	Make         string   `json:"make" validate:"required"`
	Model        string   `json:"model" validate:"required"`
	Year         int      `json:"year" validate:"required,min=1900,max=2100"`
	LicensePlate string   `json:"licensePlate"`
	FuelType     FuelType `json:"fuelType"`
}

func (v Vehicle) Summary() string {
	s := strconv.Itoa(v.Year) + " " + v.Make + " " + v.Model
	if v.LicensePlate != "" {
		s += " (" + v.LicensePlate + ")"
	}
	return s
}

type VehicleCondition struct {
	HealthScore        int         `json:"healthScore" validate:"min=0,max=100"`
	RustLevel          RustLevel   `json:"rustLevel"`
	BodyDamage         DamageLevel `json:"bodyDamage"`
	KmSinceLastService int         `json:"kmSinceLastService" validate:"min=0"`
	ErrorCodes         []string    `json:"errorCodes" validate:"max=64"`
	// BatteryHealth is the state of health in percent, read for electric vehicles only.
	BatteryHealth    int `json:"batteryHealth" validate:"min=0,max=100"`
	FluidDegradation int `json:"fluidDegradation" validate:"min=0,max=100"`
	WearScore        int `json:"wearScore" validate:"min=0,max=100"`
}

// DefaultVehicleCondition is assumed for readings the intake leaves out:
// a missing health score or battery health counts as healthy.
func DefaultVehicleCondition() VehicleCondition {
	return VehicleCondition{HealthScore: 100, BatteryHealth: 100}
}

type ServiceContext struct {
	Package       ServicePackage  `json:"package"`
	ApprovalSpeed ApprovalSpeed   `json:"approvalSpeed"`
	Appointment   AppointmentType `json:"appointment"`
	PeakHours     bool            `json:"peakHours"`
	Weather       Weather         `json:"weather"`
}

// Signals is everything the estimator reads about a vehicle and its visit.
type Signals struct {
	ManufactureYear int
	FuelType        FuelType
	Condition       VehicleCondition
	Service         ServiceContext
}

type Intake struct {
	CustomerName  string           `json:"customerName" validate:"required"`
	CustomerPhone string           `json:"customerPhone"`
	Vehicle       Vehicle          `json:"vehicle"`
	Condition     VehicleCondition `json:"condition"`
	Service       ServiceContext   `json:"service"`
	SelectedTasks []string         `json:"selectedTasks" validate:"required,min=1,dive,required"`
	Notes         string           `json:"notes"`
}

type intakeAlias Intake

// UnmarshalJSON decodes on top of DefaultVehicleCondition so omitted readings stay healthy.
func (i *Intake) UnmarshalJSON(data []byte) error {
	aux := intakeAlias{Condition: DefaultVehicleCondition()}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*i = Intake(aux)
	return nil
}

func (i *Intake) Signals() Signals {
	return Signals{
		ManufactureYear: i.Vehicle.Year,
		FuelType:        i.Vehicle.FuelType,
		Condition:       i.Condition,
		Service:         i.Service,
	}
}

type WorkOrder struct {
	ID             string         `json:"serviceId"`
	CustomerName   string         `json:"customerName"`
	CustomerPhone  string         `json:"customerPhone"`
	Vehicle        Vehicle        `json:"vehicle"`
	ServicePackage ServicePackage `json:"servicePackage"`
	SelectedTasks  []string       `json:"selectedTasks"`
	RequiredSkill  Skill          `json:"requiredSkill"`
	PredictedHours float64        `json:"predictedHours"`

	AssignedTechnicianIDs []string `json:"assignedTechnicianIds"`
	AssignedBayID         string   `json:"assignedBayId"`
	AssignedBayLabel      string   `json:"assignedBay"`
	QueuePosition         *int     `json:"queuePosition,omitempty"`

	Progress            int             `json:"progress"`
	Status              WorkOrderStatus `json:"status"`
	EstimatedCompletion time.Time       `json:"estimatedCompletion"`
	ActualStartTime     time.Time       `json:"actualStartTime"`
	CreateTime          time.Time       `json:"createTime"`
}

func (o *WorkOrder) IsQueued() bool {
	return o.Status == StatusQueued
}

func (o WorkOrder) Clone() WorkOrder {
	o.SelectedTasks = append([]string{}, o.SelectedTasks...)
	o.AssignedTechnicianIDs = append([]string{}, o.AssignedTechnicianIDs...)
	if o.QueuePosition != nil {
		p := *o.QueuePosition
		o.QueuePosition = &p
	}
	return o
}

// WorkOrderResult is what intake answers with.
type WorkOrderResult struct {
	ServiceID               string          `json:"serviceId"`
	Status                  WorkOrderStatus `json:"status"`
	PredictedHours          float64         `json:"predictedHours"`
	AssignedTechnicianNames []string        `json:"assignedTechnicianNames"`
	AssignedBay             string          `json:"assignedBay"`
	EstimatedCompletion     time.Time       `json:"estimatedCompletion"`
	QueuePosition           *int            `json:"queuePosition,omitempty"`
	Warnings                []string        `json:"warnings"`
}

type ProgressUpdating struct {
	Progress int `json:"progress" validate:"min=0,max=100"`
}

type WorkOrderCompletion struct {
	ServiceID string `json:"serviceId" validate:"required"`
}

type WorkOrderQuery struct {
	Status WorkOrderStatus `form:"status"`
}

type Receipt struct {
	ID              types.ID  `json:"id"`
	ServiceID       string    `json:"serviceId"`
	CustomerName    string    `json:"customerName"`
	VehicleSummary  string    `json:"vehicleSummary"`
	TaskSummary     string    `json:"taskSummary"`
	PredictedHours  float64   `json:"predictedHours"`
	TechnicianNames []string  `json:"technicianNames"`
	BayLabel        string    `json:"bayLabel"`
	CompletedAt     time.Time `json:"completedAt"`
	BilledAmount    float64   `json:"billedAmount"`
}

func (r Receipt) Clone() Receipt {
	r.TechnicianNames = append([]string{}, r.TechnicianNames...)
	return r
}

func TaskSummary(tasks []string) string {
	return strings.Join(tasks, ", ")
}
