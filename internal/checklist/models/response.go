package models

import (
	"strings"
	"time"

	id "fieldaudit/pkg/domain"
)

// FieldGlobal is the sentinel field id for items in non-iterating sections.
// Derived-checklist seeding and parent synchronization address responses by
// the (checklist, item, field) triple, so this value must never change.
const FieldGlobal = "global"

// ResponseStatus is the review state of a single response.
type ResponseStatus string

const (
	ResponseMissing             ResponseStatus = "missing"
	ResponsePendingVerification ResponseStatus = "pending_verification"
	ResponseApproved            ResponseStatus = "approved"
	ResponseRejected            ResponseStatus = "rejected"
)

func (s ResponseStatus) IsValid() bool {
	switch s {
	case ResponseMissing, ResponsePendingVerification, ResponseApproved, ResponseRejected:
		return true
	}
	return false
}

func (s ResponseStatus) String() string { return string(s) }

// legacyStatusLabels maps display strings accepted on the wire to canonical
// statuses. Kept deliberately permissive: older mobile clients still send
// the uppercase forms.
var legacyStatusLabels = map[string]ResponseStatus{
	"missing":              ResponseMissing,
	"not_answered":         ResponseMissing,
	"pending":              ResponsePendingVerification,
	"pending_verification": ResponsePendingVerification,
	"in_review":            ResponsePendingVerification,
	"approved":             ResponseApproved,
	"ok":                   ResponseApproved,
	"compliant":            ResponseApproved,
	"rejected":             ResponseRejected,
	"non_compliant":        ResponseRejected,
}

// NormalizeResponseStatus sanitizes an incoming status label to the
// canonical enum. Unrecognized labels default to pending verification rather
// than failing the request: an unknown label must never grant approval.
func NormalizeResponseStatus(label string) ResponseStatus {
	if status, ok := legacyStatusLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return status
	}
	return ResponsePendingVerification
}

// ResponseKey uniquely addresses one response within a checklist.
type ResponseKey struct {
	ChecklistID id.ChecklistID
	ItemID      id.ItemID
	FieldID     string
}

// Response holds a producer's answer to one (item, field) pair. Created
// lazily on first save, mutated on every subsequent save, never deleted.
type Response struct {
	ChecklistID id.ChecklistID `json:"checklist_id"`
	ItemID      id.ItemID      `json:"item_id"`
	FieldID     string         `json:"field_id"`

	Answer      string     `json:"answer"`
	Quantity    *float64   `json:"quantity,omitempty"`
	Observation string     `json:"observation"`
	FileRef     string     `json:"file_ref"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`

	Status          ResponseStatus `json:"status"`
	RejectionReason string         `json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the triple that uniquely identifies this response.
func (r *Response) Key() ResponseKey {
	return ResponseKey{ChecklistID: r.ChecklistID, ItemID: r.ItemID, FieldID: r.FieldID}
}

// IsPending reports whether the response still needs producer work: missing
// outright or awaiting verification.
func (r *Response) IsPending() bool {
	return r.Status == ResponseMissing || r.Status == ResponsePendingVerification
}
