package model

// Room 教室表 — 对应 rooms
type Room struct {
	RoomID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name     string `gorm:"type:varchar(50);not null"                      json:"name"`
	Building string `gorm:"type:varchar(50)"                               json:"building,omitempty"`
	Capacity int    `gorm:"not null;default:0"                             json:"capacity"`
	RoomType string `gorm:"column:room_type;type:varchar(20);not null;default:'classroom'" json:"room_type"` // classroom | amphi | lab
	VersionedModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
