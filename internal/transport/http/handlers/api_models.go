package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/telvana/fleet-console/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports liveness information.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the outcome of each readiness probe.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// UserView describes a fleet user returned by the console API.
type UserView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	Status     string `json:"status"`
}

// PhoneView describes a phone returned by the console API.
type PhoneView struct {
	ID           string  `json:"id"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Label        string  `json:"label"`
	SerialNumber string  `json:"serial_number,omitempty"`
	IMEI         string  `json:"imei,omitempty"`
	Color        string  `json:"color,omitempty"`
	Storage      string  `json:"storage,omitempty"`
	Condition    string  `json:"condition,omitempty"`
	Status       string  `json:"status"`
	AssignedToID *string `json:"assigned_to_id,omitempty"`
}

// SimCardView describes a SIM card returned by the console API.
type SimCardView struct {
	ID           string  `json:"id"`
	Number       string  `json:"number"`
	Carrier      string  `json:"carrier,omitempty"`
	Plan         string  `json:"plan,omitempty"`
	ICCID        string  `json:"iccid,omitempty"`
	Status       string  `json:"status"`
	AssignedToID *string `json:"assigned_to_id,omitempty"`
}

// AttributionView describes an attribution returned by the console API.
type AttributionView struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	PhoneID        *string    `json:"phone_id,omitempty"`
	SimCardID      *string    `json:"sim_card_id,omitempty"`
	AssignedBy     string     `json:"assigned_by,omitempty"`
	AssignmentDate time.Time  `json:"assignment_date"`
	ReturnDate     *time.Time `json:"return_date,omitempty"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
}

// CurrentAssignmentsView reports what a user currently holds.
type CurrentAssignmentsView struct {
	PhoneID    *string `json:"phone_id,omitempty"`
	PhoneLabel *string `json:"phone_label,omitempty"`
	SimID      *string `json:"sim_id,omitempty"`
	SimLabel   *string `json:"sim_label,omitempty"`
}

// SubmitAttributionRequest defines the payload for creating or updating an attribution.
type SubmitAttributionRequest struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id" binding:"required"`
	PhoneID            *string `json:"phone_id"`
	SimCardID          *string `json:"sim_card_id"`
	AssignmentDate     string  `json:"assignment_date"`
	Status             string  `json:"status"`
	Notes              string  `json:"notes"`
	ConfirmReplacement bool    `json:"confirm_replacement"`
}

// ReplacementConflictResponse is returned when a submit would replace an
// existing assignment and confirmation is still pending.
type ReplacementConflictResponse struct {
	Error                string                 `json:"error"`
	RequiresConfirmation bool                   `json:"requires_confirmation"`
	Current              CurrentAssignmentsView `json:"current"`
	NewPhoneID           *string                `json:"new_phone_id,omitempty"`
	NewSimCardID         *string                `json:"new_sim_card_id,omitempty"`
	TraceID              string                 `json:"trace_id,omitempty"`
}

// AssignSimRequest defines the payload for the direct SIM assignment endpoint.
type AssignSimRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// SendMessageRequest defines the payload for posting a conversation message.
type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// MessageView describes a conversation message.
type MessageView struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sent_at"`
}

// AuditEntryView describes one audit trail record.
type AuditEntryView struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id,omitempty"`
	SubjectID *string   `json:"subject_id,omitempty"`
	PhoneID   *string   `json:"phone_id,omitempty"`
	SimCardID *string   `json:"sim_card_id,omitempty"`
	Outcome   string    `json:"outcome"`
	RequestID *string   `json:"request_id,omitempty"`
	Detail    *string   `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditListResponse wraps a page of audit entries with the total match count.
type AuditListResponse struct {
	Entries []AuditEntryView `json:"entries"`
	Total   int              `json:"total"`
}

func toUserView(user domain.User) UserView {
	return UserView{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Department: user.Department,
		Status:     string(user.Status),
	}
}

func toPhoneView(phone domain.Phone) PhoneView {
	return PhoneView{
		ID:           phone.ID,
		Brand:        phone.Brand,
		Model:        phone.Model,
		Label:        phone.Label(),
		SerialNumber: phone.SerialNumber,
		IMEI:         phone.IMEI,
		Color:        phone.Color,
		Storage:      phone.Storage,
		Condition:    phone.Condition,
		Status:       string(phone.Status),
		AssignedToID: phone.AssignedToID,
	}
}

func toSimCardView(sim domain.SimCard) SimCardView {
	return SimCardView{
		ID:           sim.ID,
		Number:       sim.Number,
		Carrier:      sim.Carrier,
		Plan:         sim.Plan,
		ICCID:        sim.ICCID,
		Status:       string(sim.Status),
		AssignedToID: sim.AssignedToID,
	}
}

func toAttributionView(attribution domain.Attribution) AttributionView {
	return AttributionView{
		ID:             attribution.ID,
		UserID:         attribution.UserID,
		PhoneID:        attribution.PhoneID,
		SimCardID:      attribution.SimCardID,
		AssignedBy:     attribution.AssignedBy,
		AssignmentDate: attribution.AssignmentDate,
		ReturnDate:     attribution.ReturnDate,
		Status:         string(attribution.Status),
		Notes:          attribution.Notes,
	}
}

func toCurrentAssignmentsView(current domain.CurrentAssignments) CurrentAssignmentsView {
	return CurrentAssignmentsView{
		PhoneID:    current.PhoneID,
		PhoneLabel: current.PhoneLabel,
		SimID:      current.SimID,
		SimLabel:   current.SimLabel,
	}
}

func toMessageView(message domain.Message) MessageView {
	return MessageView{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Body:           message.Body,
		SentAt:         message.SentAt,
	}
}

func toAuditEntryView(entry domain.AuditEntry) AuditEntryView {
	return AuditEntryView{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		Action:    string(entry.Action),
		EntityID:  entry.EntityID,
		SubjectID: entry.SubjectID,
		PhoneID:   entry.PhoneID,
		SimCardID: entry.SimCardID,
		Outcome:   entry.Outcome,
		RequestID: entry.RequestID,
		Detail:    entry.Detail,
		CreatedAt: entry.CreatedAt,
	}
}
