package domain

// DTOs exchanged with the SPA frontend. Timestamps are ISO 8601 strings;
// kilogram quantities are rounded to two places at the boundary.

// PlanEntryRequest is one row in a weekly plan batch submission
type PlanEntryRequest struct {
	SupplierID uint   `json:"supplierId" validate:"required"`
	Day        string `json:"day" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Mode       string `json:"mode" validate:"required"`
	Note       string `json:"note,omitempty"`
}

// SubmitPlansRequest is the batch submission payload
type SubmitPlansRequest struct {
	Plans       []PlanEntryRequest `json:"plans" validate:"required,min=1,dive"`
	SubmittedBy string             `json:"submittedBy,omitempty"`
}

// SubmitPlansResponse reports the outcome of a batch submission. The batch is
// transactional: on failure nothing is inserted and FailedIndex names the
// first offending entry.
type SubmitPlansResponse struct {
	Accepted    int    `json:"accepted"`
	FailedIndex *int   `json:"failedIndex,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// PlanOutcomeRequest records the terminal outcome of a plan slot
type PlanOutcomeRequest struct {
	Status            string   `json:"status" validate:"required,oneof=completed rejected not_completed"`
	TotalCollectionKg *float64 `json:"totalCollectionKg,omitempty"`
	RejectionReason   *string  `json:"rejectionReason,omitempty"`
	Note              *string  `json:"note,omitempty"`
	Version           *int     `json:"version,omitempty"`
}

// AssignResourceRequest assigns the mode-appropriate resource to a slot after
// batch submission
type AssignResourceRequest struct {
	CoordinatorID *uint `json:"coordinatorId,omitempty"`
	DriverID      *uint `json:"driverId,omitempty"`
}

// WeeklyPlanSlotDTO is the enriched plan slot returned to planning screens
type WeeklyPlanSlotDTO struct {
	ID uint `json:"id"`

	SupplierID   uint   `json:"supplierId"`
	SupplierName string `json:"supplierName,omitempty"`

	PlanDate string `json:"planDate"`
	Weekday  string `json:"weekday"`
	Mode     string `json:"mode"`

	CoordinatorID   *uint  `json:"coordinatorId,omitempty"`
	CoordinatorName string `json:"coordinatorName,omitempty"`
	DriverID        *uint  `json:"driverId,omitempty"`
	DriverName      string `json:"driverName,omitempty"`

	MarketerName      string     `json:"marketerName,omitempty"`
	Note              string     `json:"note,omitempty"`
	Status            PlanStatus `json:"status"`
	TotalCollectionKg *float64   `json:"totalCollectionKg,omitempty"`
	RejectionReason   *string    `json:"rejectionReason,omitempty"`
	CreatedBy         string     `json:"createdBy,omitempty"`
	Version           int        `json:"version"`
	CreatedAt         string     `json:"createdAt"`
	UpdatedAt         string     `json:"updatedAt"`
}

// CreateSessionRequest opens a collection session against a standing order
type CreateSessionRequest struct {
	SupplierID         uint    `json:"supplierId" validate:"required"`
	MarketerID         *uint   `json:"marketerId,omitempty"`
	CoordinatorID      *uint   `json:"coordinatorId,omitempty"`
	SiteLocation       string  `json:"siteLocation" validate:"required"`
	EstimatedStartDate string  `json:"estimatedStartDate" validate:"required"`
	EstimatedEndDate   string  `json:"estimatedEndDate" validate:"required"`
	EstimatedAmountKg  float64 `json:"estimatedAmount" validate:"gte=0"`
	SessionNumber      string  `json:"sessionNumber,omitempty"`
	AttachmentRef      string  `json:"attachmentRef,omitempty"`
}

// ProblemNoteInput is a field-reported issue in a session patch
type ProblemNoteInput struct {
	Description string `json:"description" validate:"required"`
	ReportedBy  string `json:"reportedBy,omitempty"`
	Resolved    bool   `json:"resolved"`
}

// CommentNoteInput is a free-text note in a session patch
type CommentNoteInput struct {
	Text   string `json:"text" validate:"required"`
	Author string `json:"author,omitempty"`
}

// UpdateSessionRequest is a partial update: only non-nil fields are applied.
// Problems and comments replace the stored lists; callers read-modify-write.
type UpdateSessionRequest struct {
	Status             *string             `json:"status,omitempty" validate:"omitempty,oneof=scheduled onprocess completed cancelled"`
	SiteLocation       *string             `json:"siteLocation,omitempty"`
	MarketerID         *uint               `json:"marketerId,omitempty"`
	CoordinatorID      *uint               `json:"coordinatorId,omitempty"`
	EstimatedStartDate *string             `json:"estimatedStartDate,omitempty"`
	EstimatedEndDate   *string             `json:"estimatedEndDate,omitempty"`
	ActualStartDate    *string             `json:"actualStartDate,omitempty"`
	ActualEndDate      *string             `json:"actualEndDate,omitempty"`
	EstimatedAmountKg  *float64            `json:"estimatedAmount,omitempty" validate:"omitempty,gte=0"`
	TotalTimeSpent     *string             `json:"totalTimeSpent,omitempty"`
	CollectionData     CollectionData      `json:"collectionData,omitempty"`
	Problems           *[]ProblemNoteInput `json:"problems,omitempty" validate:"omitempty,dive"`
	Comments           *[]CommentNoteInput `json:"comments,omitempty" validate:"omitempty,dive"`
	Comment            *string             `json:"comment,omitempty"`
	AttachmentRef      *string             `json:"attachmentRef,omitempty"`
	Version            *int                `json:"version,omitempty"`
}

// IsEmpty reports whether the patch carries no field at all
func (r *UpdateSessionRequest) IsEmpty() bool {
	return r.Status == nil &&
		r.SiteLocation == nil &&
		r.MarketerID == nil &&
		r.CoordinatorID == nil &&
		r.EstimatedStartDate == nil &&
		r.EstimatedEndDate == nil &&
		r.ActualStartDate == nil &&
		r.ActualEndDate == nil &&
		r.EstimatedAmountKg == nil &&
		r.TotalTimeSpent == nil &&
		r.CollectionData == nil &&
		r.Problems == nil &&
		r.Comments == nil &&
		r.Comment == nil &&
		r.AttachmentRef == nil
}

// SessionDTO is the full session record with structured fields materialized
type SessionDTO struct {
	ID            uint   `json:"id"`
	SessionNumber string `json:"sessionNumber"`

	SupplierID   uint   `json:"supplierId"`
	SupplierName string `json:"supplierName,omitempty"`

	MarketerID      *uint  `json:"marketerId,omitempty"`
	MarketerName    string `json:"marketerName,omitempty"`
	CoordinatorID   *uint  `json:"coordinatorId,omitempty"`
	CoordinatorName string `json:"coordinatorName,omitempty"`

	SiteLocation       string  `json:"siteLocation"`
	EstimatedStartDate string  `json:"estimatedStartDate"`
	EstimatedEndDate   string  `json:"estimatedEndDate"`
	ActualStartDate    *string `json:"actualStartDate,omitempty"`
	ActualEndDate      *string `json:"actualEndDate,omitempty"`

	Status            SessionStatus  `json:"status"`
	EstimatedAmountKg float64        `json:"estimatedAmount"`
	TotalTimeSpent    string         `json:"totalTimeSpent,omitempty"`
	CollectionData    CollectionData `json:"collectionData"`
	Problems          []ProblemNote  `json:"problems"`
	Comments          []CommentNote  `json:"comments"`
	Performance       Performance    `json:"performance"`
	AttachmentRef     string         `json:"attachmentRef,omitempty"`
	Version           int            `json:"version"`
	CreatedAt         string         `json:"createdAt"`
	UpdatedAt         string         `json:"updatedAt"`
}

// EnsureOrderRequest creates or returns the active order for a pair
type EnsureOrderRequest struct {
	SupplierID      uint   `json:"supplierId" validate:"required"`
	MarketerID      *uint  `json:"marketerId,omitempty"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`
}

// StandingOrderDTO represents a standing order
type StandingOrderDTO struct {
	ID              uint        `json:"id"`
	SupplierID      uint        `json:"supplierId"`
	SupplierName    string      `json:"supplierName,omitempty"`
	MarketerID      *uint       `json:"marketerId,omitempty"`
	MarketerName    string      `json:"marketerName,omitempty"`
	Status          OrderStatus `json:"status"`
	AdditionalNotes string      `json:"additionalNotes,omitempty"`
	CreatedAt       string      `json:"createdAt"`
	UpdatedAt       string      `json:"updatedAt"`
}

// CostEvaluationRequest creates the worksheet for a completed session
type CostEvaluationRequest struct {
	LaborCount       int     `json:"laborCount" validate:"gte=0"`
	LaborRate        float64 `json:"laborRate" validate:"gte=0"`
	BagCount         int     `json:"bagCount" validate:"gte=0"`
	BagUnitCost      float64 `json:"bagUnitCost" validate:"gte=0"`
	TransportCost    float64 `json:"transportCost" validate:"gte=0"`
	QualityCheckedBy string  `json:"qualityCheckedBy,omitempty"`
	QualityApproved  bool    `json:"qualityApproved"`
	Notes            string  `json:"notes,omitempty"`
}

// CostEvaluationDTO represents the worksheet with its computed total
type CostEvaluationDTO struct {
	ID               uint    `json:"id"`
	SessionID        uint    `json:"sessionId"`
	LaborCount       int     `json:"laborCount"`
	LaborRate        float64 `json:"laborRate"`
	BagCount         int     `json:"bagCount"`
	BagUnitCost      float64 `json:"bagUnitCost"`
	TransportCost    float64 `json:"transportCost"`
	TotalCost        float64 `json:"totalCost"`
	QualityCheckedBy string  `json:"qualityCheckedBy,omitempty"`
	QualityApproved  bool    `json:"qualityApproved"`
	Notes            string  `json:"notes,omitempty"`
	CreatedAt        string  `json:"createdAt"`
}

// SupplierDTO is the read-only supplier projection
type SupplierDTO struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Location      string `json:"location,omitempty"`
	Sector        string `json:"sector,omitempty"`
	Region        string `json:"region,omitempty"`
	IsActive      bool   `json:"isActive"`
}

// UserDTO is the read-only registry user projection
type UserDTO struct {
	ID       uint     `json:"id"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Role     UserRole `json:"role"`
	IsActive bool     `json:"isActive"`
}

// CollectionModeDTO describes one of the two operating modes
type CollectionModeDTO struct {
	Code             CollectionMode `json:"code"`
	Name             string         `json:"name"`
	RequiredResource string         `json:"requiredResource"`
}

// PaginatedResponse is a generic paginated list envelope
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
