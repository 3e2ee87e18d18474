package domain

import (
	"strings"
	"time"
)

// BaseModel holds the fields shared by all persisted entities
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// CollectionMode discriminates the two pickup workflows. Instore collections
// are run on the supplier's premises by a coordinator; Regular collections
// are truck pickups that require a driver.
type CollectionMode string

const (
	ModeInstore CollectionMode = "instore"
	ModeRegular CollectionMode = "regular"
)

// IsValid checks if the CollectionMode is a valid enum value
func (m CollectionMode) IsValid() bool {
	return m == ModeInstore || m == ModeRegular
}

// ParseCollectionMode resolves a user-facing mode label to the internal code
func ParseCollectionMode(label string) (CollectionMode, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "instore", "in-store", "in store":
		return ModeInstore, true
	case "regular":
		return ModeRegular, true
	}
	return "", false
}

// DisplayName returns the label used on planning screens
func (m CollectionMode) DisplayName() string {
	switch m {
	case ModeInstore:
		return "Instore"
	case ModeRegular:
		return "Regular"
	}
	return string(m)
}

// PlanStatus represents the pre-execution lifecycle of a weekly plan slot
type PlanStatus string

const (
	PlanStatusDraft        PlanStatus = "draft"
	PlanStatusScheduled    PlanStatus = "scheduled"
	PlanStatusCompleted    PlanStatus = "completed"
	PlanStatusRejected     PlanStatus = "rejected"
	PlanStatusNotCompleted PlanStatus = "not_completed"
)

// IsValid checks if the PlanStatus is a valid enum value
func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusDraft, PlanStatusScheduled, PlanStatusCompleted, PlanStatusRejected, PlanStatusNotCompleted:
		return true
	}
	return false
}

// IsOutcome reports whether the status is a legal terminal outcome for a slot
func (s PlanStatus) IsOutcome() bool {
	return s == PlanStatusCompleted || s == PlanStatusRejected || s == PlanStatusNotCompleted
}

// WeeklyPlanSlot is a planned assignment of a supplier to a day and collection
// mode within an operating week, one row per (supplier, date, mode).
// The mode determines which resource field is required: Instore slots carry a
// coordinator, Regular slots carry a driver; the other field stays null.
type WeeklyPlanSlot struct {
	BaseModel
	SupplierID        uint           `gorm:"not null;uniqueIndex:idx_plan_supplier_date_mode;column:supplier_id"`
	Supplier          *Supplier      `gorm:"foreignKey:SupplierID"`
	PlanDate          time.Time      `gorm:"type:date;not null;uniqueIndex:idx_plan_supplier_date_mode;index;column:plan_date"`
	Weekday           string         `gorm:"type:varchar(20);not null"`
	Mode              CollectionMode `gorm:"type:varchar(20);not null;uniqueIndex:idx_plan_supplier_date_mode"`
	CoordinatorID     *uint          `gorm:"column:coordinator_id"`
	Coordinator       *User          `gorm:"foreignKey:CoordinatorID"`
	DriverID          *uint          `gorm:"column:driver_id"`
	Driver            *User          `gorm:"foreignKey:DriverID"`
	MarketerName      string         `gorm:"type:varchar(200);column:marketer_name"`
	Note              string         `gorm:"type:text"`
	Status            PlanStatus     `gorm:"type:varchar(30);not null;default:'draft';index"`
	TotalCollectionKg *float64       `gorm:"type:decimal(10,2);column:total_collection_kg"`
	RejectionReason   *string        `gorm:"type:varchar(500);column:rejection_reason"`
	CreatedBy         string         `gorm:"type:varchar(200);column:created_by"`
	Version           int            `gorm:"not null;default:1"`
}

// OrderStatus represents the status of a standing order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusOnProcess OrderStatus = "onprocess"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the OrderStatus is a valid enum value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusOnProcess, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the order still tracks open field work
func (s OrderStatus) IsActive() bool {
	return s == OrderStatusPending || s == OrderStatusOnProcess
}

// StandingOrder bridges planning and execution: it records that a supplier /
// marketer pair currently has field work open. At most one active order exists
// per pair; its status mirrors the terminal state of the session that consumed
// it. Only the session engine writes order status.
type StandingOrder struct {
	BaseModel
	SupplierID      uint        `gorm:"not null;index:idx_order_pair;column:supplier_id"`
	Supplier        *Supplier   `gorm:"foreignKey:SupplierID"`
	MarketerID      *uint       `gorm:"index:idx_order_pair;column:marketer_id"`
	Marketer        *User       `gorm:"foreignKey:MarketerID"`
	Status          OrderStatus `gorm:"type:varchar(30);not null;default:'pending';index"`
	AdditionalNotes string      `gorm:"type:text;column:additional_notes"`
}

// SessionStatus represents the execution lifecycle of a collection session
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusOnProcess SessionStatus = "onprocess"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// IsValid checks if the SessionStatus is a valid enum value
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusScheduled, SessionStatusOnProcess, SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status transition is accepted
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

// Paper type keys used in CollectionData. Free-form keys are accepted at the
// boundary; these are the grades the business sorts into today.
const (
	PaperTypeCarton      = "carton"
	PaperTypeMixed       = "mixed"
	PaperTypeNewspaper   = "newspaper"
	PaperTypeMagazine    = "magazine"
	PaperTypeSortedWhite = "sw"
)

// CollectionData holds collected kilograms keyed by paper type
type CollectionData map[string]float64

// TotalKg sums all per-paper-type quantities; negative entries count as zero
func (d CollectionData) TotalKg() float64 {
	var total float64
	for _, kg := range d {
		if kg > 0 {
			total += kg
		}
	}
	return total
}

// ProblemNote is a field-reported issue attached to a session
type ProblemNote struct {
	Description string    `json:"description"`
	ReportedBy  string    `json:"reportedBy,omitempty"`
	Resolved    bool      `json:"resolved"`
	ReportedAt  time.Time `json:"reportedAt"`
}

// CommentNote is a free-text note attached to a session
type CommentNote struct {
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Performance holds the derived scores computed at session completion
type Performance struct {
	TotalCollectionKg float64 `json:"totalCollection"`
	Efficiency        float64 `json:"efficiency"`
	Quality           float64 `json:"quality"`
	Punctuality       float64 `json:"punctuality"`
}

// CollectionSession is the execution record of one real-world collection
// event. Sessions are historical records and are never deleted. Collection
// data and performance only carry real values once the session is completed;
// performance is computed exactly once, on the transition into completed.
type CollectionSession struct {
	BaseModel
	SessionNumber      string         `gorm:"type:varchar(50);not null;unique;column:session_number"`
	SupplierID         uint           `gorm:"not null;index;column:supplier_id"`
	Supplier           *Supplier      `gorm:"foreignKey:SupplierID"`
	MarketerID         *uint          `gorm:"column:marketer_id"`
	Marketer           *User          `gorm:"foreignKey:MarketerID"`
	CoordinatorID      *uint          `gorm:"column:coordinator_id"`
	Coordinator        *User          `gorm:"foreignKey:CoordinatorID"`
	SiteLocation       string         `gorm:"type:varchar(500);not null;column:site_location"`
	EstimatedStartDate time.Time      `gorm:"not null;column:estimated_start_date"`
	EstimatedEndDate   time.Time      `gorm:"not null;column:estimated_end_date"`
	ActualStartDate    *time.Time     `gorm:"column:actual_start_date"`
	ActualEndDate      *time.Time     `gorm:"column:actual_end_date"`
	Status             SessionStatus  `gorm:"type:varchar(30);not null;default:'onprocess';index"`
	EstimatedAmountKg  float64        `gorm:"type:decimal(10,2);not null;default:0;column:estimated_amount_kg"`
	TotalTimeSpent     string         `gorm:"type:varchar(50);column:total_time_spent"`
	CollectionData     CollectionData `gorm:"serializer:json;column:collection_data"`
	Problems           []ProblemNote  `gorm:"serializer:json"`
	Comments           []CommentNote  `gorm:"serializer:json"`
	Performance        Performance    `gorm:"serializer:json"`
	AttachmentRef      string         `gorm:"type:varchar(500);column:attachment_ref"`
	Version            int            `gorm:"not null;default:1"`
}

// CostEvaluation is the post-completion cost worksheet attached 1:1 to a
// session. It is an appendix record outside the session state machine.
type CostEvaluation struct {
	BaseModel
	SessionID        uint               `gorm:"not null;uniqueIndex;column:session_id"`
	Session          *CollectionSession `gorm:"foreignKey:SessionID"`
	LaborCount       int                `gorm:"not null;default:0;column:labor_count"`
	LaborRate        float64            `gorm:"type:decimal(10,2);not null;default:0;column:labor_rate"`
	BagCount         int                `gorm:"not null;default:0;column:bag_count"`
	BagUnitCost      float64            `gorm:"type:decimal(10,2);not null;default:0;column:bag_unit_cost"`
	TransportCost    float64            `gorm:"type:decimal(10,2);not null;default:0;column:transport_cost"`
	QualityCheckedBy string             `gorm:"type:varchar(200);column:quality_checked_by"`
	QualityApproved  bool               `gorm:"not null;default:false;column:quality_approved"`
	Notes            string             `gorm:"type:text"`
}

// TotalCost returns the worksheet total
func (e *CostEvaluation) TotalCost() float64 {
	return float64(e.LaborCount)*e.LaborRate + float64(e.BagCount)*e.BagUnitCost + e.TransportCost
}

// Supplier is reference data owned by the registry module; this core only
// reads it.
type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null;index"`
	ContactPerson string `gorm:"type:varchar(200);column:contact_person"`
	Phone         string `gorm:"type:varchar(50)"`
	Location      string `gorm:"type:varchar(500)"`
	Sector        string `gorm:"type:varchar(100)"`
	Region        string `gorm:"type:varchar(100)"`
	IsActive      bool   `gorm:"not null;default:true;column:is_active"`
}

// UserRole represents the function a registry user performs in the field
type UserRole string

const (
	RoleCoordinator UserRole = "coordinator"
	RoleDriver      UserRole = "driver"
	RoleMarketer    UserRole = "marketer"
	RolePlanner     UserRole = "planner"
	RoleAdmin       UserRole = "admin"
)

// User is reference data from the user registry (coordinators, drivers,
// marketers, planners).
type User struct {
	BaseModel
	FirstName string   `gorm:"type:varchar(100);not null;column:first_name"`
	LastName  string   `gorm:"type:varchar(100);not null;column:last_name"`
	Email     string   `gorm:"type:varchar(255);unique"`
	Phone     string   `gorm:"type:varchar(50)"`
	Role      UserRole `gorm:"type:varchar(30);not null;index"`
	IsActive  bool     `gorm:"not null;default:true;column:is_active"`
}

// FullName returns the user's full name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// NumberSequence backs session number generation. One row per year; LastValue
// is the last sequence number handed out.
type NumberSequence struct {
	ID        uint      `gorm:"primaryKey"`
	Year      int       `gorm:"not null;uniqueIndex"`
	LastValue int       `gorm:"not null;default:0;column:last_value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}
