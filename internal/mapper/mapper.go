package mapper

import (
	"math"
	"time"

	"github.com/andemamma/collection-api/internal/domain"
)

const (
	timestampFormat = "2006-01-02T15:04:05Z"
	dateFormat      = "2006-01-02"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

func formatTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTimestamp(*t)
	return &s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ToWeeklyPlanSlotDTO(slot *domain.WeeklyPlanSlot) domain.WeeklyPlanSlotDTO {
	dto := domain.WeeklyPlanSlotDTO{
		ID:                slot.ID,
		SupplierID:        slot.SupplierID,
		PlanDate:          slot.PlanDate.UTC().Format(dateFormat),
		Weekday:           slot.Weekday,
		Mode:              slot.Mode.DisplayName(),
		CoordinatorID:     slot.CoordinatorID,
		DriverID:          slot.DriverID,
		MarketerName:      slot.MarketerName,
		Note:              slot.Note,
		Status:            slot.Status,
		TotalCollectionKg: slot.TotalCollectionKg,
		RejectionReason:   slot.RejectionReason,
		CreatedBy:         slot.CreatedBy,
		Version:           slot.Version,
		CreatedAt:         formatTimestamp(slot.CreatedAt),
		UpdatedAt:         formatTimestamp(slot.UpdatedAt),
	}
	if slot.Supplier != nil {
		dto.SupplierName = slot.Supplier.Name
	}
	if slot.Coordinator != nil {
		dto.CoordinatorName = slot.Coordinator.FullName()
	}
	if slot.Driver != nil {
		dto.DriverName = slot.Driver.FullName()
	}
	return dto
}

func ToWeeklyPlanSlotDTOs(slots []domain.WeeklyPlanSlot) []domain.WeeklyPlanSlotDTO {
	dtos := make([]domain.WeeklyPlanSlotDTO, len(slots))
	for i := range slots {
		dtos[i] = ToWeeklyPlanSlotDTO(&slots[i])
	}
	return dtos
}

func ToSessionDTO(session *domain.CollectionSession) domain.SessionDTO {
	dto := domain.SessionDTO{
		ID:                 session.ID,
		SessionNumber:      session.SessionNumber,
		SupplierID:         session.SupplierID,
		MarketerID:         session.MarketerID,
		CoordinatorID:      session.CoordinatorID,
		SiteLocation:       session.SiteLocation,
		EstimatedStartDate: formatTimestamp(session.EstimatedStartDate),
		EstimatedEndDate:   formatTimestamp(session.EstimatedEndDate),
		ActualStartDate:    formatTimestampPtr(session.ActualStartDate),
		ActualEndDate:      formatTimestampPtr(session.ActualEndDate),
		Status:             session.Status,
		EstimatedAmountKg:  round2(session.EstimatedAmountKg),
		TotalTimeSpent:     session.TotalTimeSpent,
		CollectionData:     session.CollectionData,
		Problems:           session.Problems,
		Comments:           session.Comments,
		Performance:        session.Performance,
		AttachmentRef:      session.AttachmentRef,
		Version:            session.Version,
		CreatedAt:          formatTimestamp(session.CreatedAt),
		UpdatedAt:          formatTimestamp(session.UpdatedAt),
	}
	// Collection figures only settle at completion; staged entries stay
	// internal until then
	if dto.CollectionData == nil || session.Status != domain.SessionStatusCompleted {
		dto.CollectionData = domain.CollectionData{}
	}
	if dto.Problems == nil {
		dto.Problems = []domain.ProblemNote{}
	}
	if dto.Comments == nil {
		dto.Comments = []domain.CommentNote{}
	}
	if session.Supplier != nil {
		dto.SupplierName = session.Supplier.Name
	}
	if session.Marketer != nil {
		dto.MarketerName = session.Marketer.FullName()
	}
	if session.Coordinator != nil {
		dto.CoordinatorName = session.Coordinator.FullName()
	}
	return dto
}

func ToSessionDTOs(sessions []domain.CollectionSession) []domain.SessionDTO {
	dtos := make([]domain.SessionDTO, len(sessions))
	for i := range sessions {
		dtos[i] = ToSessionDTO(&sessions[i])
	}
	return dtos
}

func ToStandingOrderDTO(order *domain.StandingOrder) domain.StandingOrderDTO {
	dto := domain.StandingOrderDTO{
		ID:              order.ID,
		SupplierID:      order.SupplierID,
		MarketerID:      order.MarketerID,
		Status:          order.Status,
		AdditionalNotes: order.AdditionalNotes,
		CreatedAt:       formatTimestamp(order.CreatedAt),
		UpdatedAt:       formatTimestamp(order.UpdatedAt),
	}
	if order.Supplier != nil {
		dto.SupplierName = order.Supplier.Name
	}
	if order.Marketer != nil {
		dto.MarketerName = order.Marketer.FullName()
	}
	return dto
}

func ToStandingOrderDTOs(orders []domain.StandingOrder) []domain.StandingOrderDTO {
	dtos := make([]domain.StandingOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = ToStandingOrderDTO(&orders[i])
	}
	return dtos
}

func ToCostEvaluationDTO(eval *domain.CostEvaluation) domain.CostEvaluationDTO {
	return domain.CostEvaluationDTO{
		ID:               eval.ID,
		SessionID:        eval.SessionID,
		LaborCount:       eval.LaborCount,
		LaborRate:        round2(eval.LaborRate),
		BagCount:         eval.BagCount,
		BagUnitCost:      round2(eval.BagUnitCost),
		TransportCost:    round2(eval.TransportCost),
		TotalCost:        round2(eval.TotalCost()),
		QualityCheckedBy: eval.QualityCheckedBy,
		QualityApproved:  eval.QualityApproved,
		Notes:            eval.Notes,
		CreatedAt:        formatTimestamp(eval.CreatedAt),
	}
}

func ToSupplierDTO(supplier *domain.Supplier) domain.SupplierDTO {
	return domain.SupplierDTO{
		ID:            supplier.ID,
		Name:          supplier.Name,
		ContactPerson: supplier.ContactPerson,
		Phone:         supplier.Phone,
		Location:      supplier.Location,
		Sector:        supplier.Sector,
		Region:        supplier.Region,
		IsActive:      supplier.IsActive,
	}
}

func ToSupplierDTOs(suppliers []domain.Supplier) []domain.SupplierDTO {
	dtos := make([]domain.SupplierDTO, len(suppliers))
	for i := range suppliers {
		dtos[i] = ToSupplierDTO(&suppliers[i])
	}
	return dtos
}

func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:       user.ID,
		FullName: user.FullName(),
		Email:    user.Email,
		Phone:    user.Phone,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
}

func ToUserDTOs(users []domain.User) []domain.UserDTO {
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = ToUserDTO(&users[i])
	}
	return dtos
}
