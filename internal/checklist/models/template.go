package models

import (
	id "fieldaudit/pkg/domain"
	dErrors "fieldaudit/pkg/domain-errors"
)

// Template is the reusable definition a checklist is answered against.
// Templates are immutable once a checklist uses them; the CRUD layer that
// enforces this is outside this service, so nothing here mutates one.
type Template struct {
	ID   id.TemplateID `json:"id"`
	Name string        `json:"name"`
	// IsLevelBased enables progressive levels; without it every section is
	// global and level scoring is not applicable.
	IsLevelBased bool `json:"is_level_based"`
	// LevelAccumulative widens each level's scope to every lower level's
	// sections in addition to its own.
	LevelAccumulative bool `json:"level_accumulative"`

	Levels          []*Level          `json:"levels"`          // ascending Order
	Classifications []*Classification `json:"classifications"` // no significant order
	Sections        []*Section        `json:"sections"`        // template order
}

// Level is an ordered compliance tier a checklist can progress through.
type Level struct {
	ID         id.LevelID    `json:"id"`
	TemplateID id.TemplateID `json:"template_id"`
	Name       string        `json:"name"`
	Order      int           `json:"order"`
}

// Classification is a scoring bucket with a pass-percentage threshold,
// evaluated per level.
type Classification struct {
	ID                 id.ClassificationID `json:"id"`
	TemplateID         id.TemplateID       `json:"template_id"`
	Code               string              `json:"code"`
	Name               string              `json:"name"`
	RequiredPercentage float64             `json:"required_percentage"` // 0-100
}

// Section groups items. A section is either bound to one level or global
// (applies to every level). IterateOverFields marks sections answered once
// per dynamic field rather than once globally.
type Section struct {
	ID                id.SectionID  `json:"id"`
	TemplateID        id.TemplateID `json:"template_id"`
	Name              string        `json:"name"`
	Position          int           `json:"position"`
	LevelID           id.LevelID    `json:"level_id"` // nil UUID = global
	IterateOverFields bool          `json:"iterate_over_fields"`
	Items             []*Item       `json:"items"`
}

// IsGlobal reports whether the section applies to every level.
func (s *Section) IsGlobal() bool { return s.LevelID.IsNil() }

// Item is a single checkable point inside a section.
type Item struct {
	ID        id.ItemID    `json:"id"`
	SectionID id.SectionID `json:"section_id"`
	Name      string       `json:"name"`
	Required  bool         `json:"required"`
	// ClassificationID is optional; items without one score into the level's
	// uncategorized aggregate.
	ClassificationID id.ClassificationID `json:"classification_id"`
	// BlocksAdvancementToLevelID gates the named level (and every level
	// above it) until this item's global response is approved.
	BlocksAdvancementToLevelID id.LevelID  `json:"blocks_advancement_to_level_id"`
	Conditions                 []Condition `json:"conditions"`
}

// ConditionOperator compares a scope answer to a literal.
type ConditionOperator string

const (
	OperatorEQ  ConditionOperator = "eq"
	OperatorNEQ ConditionOperator = "neq"
	OperatorGT  ConditionOperator = "gt"
	OperatorLT  ConditionOperator = "lt"
	OperatorGTE ConditionOperator = "gte"
	OperatorLTE ConditionOperator = "lte"
)

func (o ConditionOperator) IsValid() bool {
	switch o {
	case OperatorEQ, OperatorNEQ, OperatorGT, OperatorLT, OperatorGTE, OperatorLTE:
		return true
	}
	return false
}

func (o ConditionOperator) String() string { return string(o) }

// ConditionAction is what a matching condition does to its item.
type ConditionAction string

const (
	ActionRemove   ConditionAction = "remove"
	ActionOptional ConditionAction = "optional"
)

func (a ConditionAction) IsValid() bool {
	return a == ActionRemove || a == ActionOptional
}

func (a ConditionAction) String() string { return string(a) }

// Condition removes or demotes-to-optional an item based on a scope answer.
// Conditions on one item are evaluated independently; remove takes priority
// over optional.
type Condition struct {
	ScopeFieldID string            `json:"scope_field_id"`
	Operator     ConditionOperator `json:"operator"`
	Value        string            `json:"value"`
	Action       ConditionAction   `json:"action"`
}

// LevelByID resolves a level on this template.
func (t *Template) LevelByID(levelID id.LevelID) (*Level, error) {
	for _, l := range t.Levels {
		if l.ID == levelID {
			return l, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "level not found on template")
}

// SectionsForLevel returns the sections in scope for a level: every global
// section, plus level-bound sections per the accumulative flag (order <= the
// level's order when accumulative, exact level otherwise).
//
// Both the scorer and the lifecycle manager select items through this method
// so achievement and derivation always agree on scope.
func (t *Template) SectionsForLevel(level *Level) []*Section {
	var out []*Section
	for _, s := range t.Sections {
		if s.IsGlobal() {
			out = append(out, s)
			continue
		}
		bound, err := t.LevelByID(s.LevelID)
		if err != nil {
			continue
		}
		if t.LevelAccumulative {
			if bound.Order <= level.Order {
				out = append(out, s)
			}
		} else if bound.ID == level.ID {
			out = append(out, s)
		}
	}
	return out
}

// SectionsForLevels returns sections bound to levels whose order lies in
// (lowOrder, highOrder]. Used when escalating a completion checklist to seed
// the levels between the old and new target.
func (t *Template) SectionsForLevels(lowOrder, highOrder int) []*Section {
	var out []*Section
	for _, s := range t.Sections {
		if s.IsGlobal() {
			continue
		}
		bound, err := t.LevelByID(s.LevelID)
		if err != nil {
			continue
		}
		if bound.Order > lowOrder && bound.Order <= highOrder {
			out = append(out, s)
		}
	}
	return out
}
