package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// StringList is a JSON-encoded list column used for changelog line items.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// Changelog represents a versioned release note for the CmdDeck desktop app
type Changelog struct {
	ID           uint64         `gorm:"primaryKey" json:"id"`
	Version      string         `gorm:"type:varchar(50);uniqueIndex" json:"version" validate:"required,min=1,max=50"`
	Date         string         `gorm:"type:varchar(50)" json:"date" validate:"required"`
	Title        string         `gorm:"type:varchar(255)" json:"title" validate:"required,min=3,max=255"`
	Description  string         `gorm:"type:text" json:"description" validate:"required"`
	Improvements StringList     `gorm:"type:json" json:"improvements"`
	Fixes        StringList     `gorm:"type:json" json:"fixes"`
	Patches      StringList     `gorm:"type:json" json:"patches"`
	Published    bool           `gorm:"type:tinyint(1);default:0" json:"published"`
	ViewCount    uint64         `gorm:"type:bigint unsigned;default:0" json:"-"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Changelog model
func (Changelog) TableName() string {
	return "changelogs"
}
