package models

type Compilation struct {
	ID     uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title  string  `gorm:"type:varchar(50);not null" json:"title"`
	Pinned bool    `gorm:"not null;default:false;index" json:"pinned"`
	Events []Event `gorm:"many2many:compilation_events" json:"events"`
}

func (Compilation) TableName() string {
	return "compilations"
}
