package models

type User struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"type:varchar(250);not null" json:"name"`
	Email string `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
}

func (User) TableName() string {
	return "users"
}
