package model

import "fmt"

type MovementType string

const (
	MovementIn       MovementType = "IN"
	MovementOut      MovementType = "OUT"
	MovementRegister MovementType = "REGISTER"
	MovementOrder    MovementType = "ORDER"
	MovementImport   MovementType = "IMPORT"
)

// Movement is one journal entry describing a change applied to a record.
type Movement struct {
	BaseModel
	RecordID      string       `gorm:"type:varchar(100);not null;index" json:"record_id"`
	RecordName    string       `gorm:"type:varchar(255)" json:"record_name"`
	Type          MovementType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity      int          `gorm:"not null" json:"quantity"` // signed: negative for OUT
	QuantityAfter int          `json:"quantity_after"`
	Note          string       `json:"note"`
}

// TableName specifies the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// String renders the operator log line for the movement.
func (m Movement) String() string {
	return fmt.Sprintf("%s: %s (ID: %s) - quantity: %d", m.Type, m.RecordName, m.RecordID, m.Quantity)
}
