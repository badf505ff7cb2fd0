package model

// Group 班组表 — 对应 groups
// 访问范围沿 group → level → specialty → department 链解析
type Group struct {
	GroupID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	LevelID  string `gorm:"type:uuid;not null"                             json:"level_id"`
	Name     string `gorm:"type:varchar(50);not null"                      json:"name"`
	Capacity int    `gorm:"not null;default:30"                            json:"capacity"`
	VersionedModel

	// 关联
	Level *Level `gorm:"foreignKey:LevelID;references:LevelID" json:"level,omitempty"`
}

// TableName 指定表名
func (Group) TableName() string { return "groups" }
