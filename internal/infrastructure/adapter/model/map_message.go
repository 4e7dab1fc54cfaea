package model

// MapMessage is one message recorded against a map table row
type MapMessage struct {
	MsgID         uint   `gorm:"column:msgid;primaryKey;autoIncrement"`
	SourceIDsHash string `gorm:"column:source_ids_hash;type:varchar(64);not null"`
	Level         int    `gorm:"column:level;not null;default:1"`
	Message       string `gorm:"column:message;type:text;not null"`
}
