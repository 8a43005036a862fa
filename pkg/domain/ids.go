package domain

import (
	"github.com/google/uuid"

	dErrors "fieldaudit/pkg/domain-errors"
)

// Typed identifiers for the audit domain. Distinct types keep a checklist id
// from being passed where an item id is expected; the compiler enforces it.
//
// Usage: construct via the Parse* functions at trust boundaries. Direct
// casting bypasses validation.
type (
	ChecklistID      uuid.UUID
	TemplateID       uuid.UUID
	SectionID        uuid.UUID
	ItemID           uuid.UUID
	LevelID          uuid.UUID
	ClassificationID uuid.UUID
	ProducerID       uuid.UUID
	ReportID         uuid.UUID
	UserID           uuid.UUID
)

// parseUUID enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be the nil UUID")
	}
	return u, nil
}

func ParseChecklistID(s string) (ChecklistID, error) {
	u, err := parseUUID(s, "checklist id")
	return ChecklistID(u), err
}

func ParseTemplateID(s string) (TemplateID, error) {
	u, err := parseUUID(s, "template id")
	return TemplateID(u), err
}

func ParseSectionID(s string) (SectionID, error) {
	u, err := parseUUID(s, "section id")
	return SectionID(u), err
}

func ParseItemID(s string) (ItemID, error) {
	u, err := parseUUID(s, "item id")
	return ItemID(u), err
}

func ParseLevelID(s string) (LevelID, error) {
	u, err := parseUUID(s, "level id")
	return LevelID(u), err
}

func ParseClassificationID(s string) (ClassificationID, error) {
	u, err := parseUUID(s, "classification id")
	return ClassificationID(u), err
}

func ParseProducerID(s string) (ProducerID, error) {
	u, err := parseUUID(s, "producer id")
	return ProducerID(u), err
}

func ParseReportID(s string) (ReportID, error) {
	u, err := parseUUID(s, "report id")
	return ReportID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

func NewChecklistID() ChecklistID { return ChecklistID(uuid.New()) }
func NewTemplateID() TemplateID   { return TemplateID(uuid.New()) }
func NewSectionID() SectionID     { return SectionID(uuid.New()) }
func NewItemID() ItemID           { return ItemID(uuid.New()) }
func NewLevelID() LevelID         { return LevelID(uuid.New()) }
func NewClassificationID() ClassificationID {
	return ClassificationID(uuid.New())
}
func NewProducerID() ProducerID { return ProducerID(uuid.New()) }
func NewReportID() ReportID     { return ReportID(uuid.New()) }

func (id ChecklistID) String() string      { return uuid.UUID(id).String() }
func (id TemplateID) String() string       { return uuid.UUID(id).String() }
func (id SectionID) String() string        { return uuid.UUID(id).String() }
func (id ItemID) String() string           { return uuid.UUID(id).String() }
func (id LevelID) String() string          { return uuid.UUID(id).String() }
func (id ClassificationID) String() string { return uuid.UUID(id).String() }
func (id ProducerID) String() string       { return uuid.UUID(id).String() }
func (id ReportID) String() string         { return uuid.UUID(id).String() }
func (id UserID) String() string           { return uuid.UUID(id).String() }

func (id ChecklistID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id TemplateID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id ItemID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id LevelID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id ClassificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText makes IDs render as canonical UUID strings in JSON maps and
// struct fields alike.
func (id ChecklistID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id TemplateID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id SectionID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id ItemID) MarshalText() ([]byte, error)           { return []byte(id.String()), nil }
func (id LevelID) MarshalText() ([]byte, error)          { return []byte(id.String()), nil }
func (id ClassificationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ProducerID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id ReportID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id UserID) MarshalText() ([]byte, error)           { return []byte(id.String()), nil }

func (id *ChecklistID) UnmarshalText(b []byte) error {
	parsed, err := ParseChecklistID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ItemID) UnmarshalText(b []byte) error {
	parsed, err := ParseItemID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// LevelID and ClassificationID use the nil UUID as "unset" (global section,
// uncategorized item), so their decoders accept it.
func (id *LevelID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid level id")
	}
	*id = LevelID(u)
	return nil
}

func (id *ClassificationID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid classification id")
	}
	*id = ClassificationID(u)
	return nil
}

func (id *TemplateID) UnmarshalText(b []byte) error {
	parsed, err := ParseTemplateID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *SectionID) UnmarshalText(b []byte) error {
	parsed, err := ParseSectionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ProducerID) UnmarshalText(b []byte) error {
	parsed, err := ParseProducerID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ReportID) UnmarshalText(b []byte) error {
	parsed, err := ParseReportID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
