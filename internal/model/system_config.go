package model

// SystemConfig 系统配置表 — 对应 system_config（单行强类型）
// 缺勤处分阈值：同科目未请假缺勤达 WarnThreshold 发预警，
// 达 EliminateThreshold 触发淘汰评估
type SystemConfig struct {
	Singleton          bool `gorm:"primaryKey;default:true"  json:"-"`
	WarnThreshold      int  `gorm:"column:absence_warn_threshold;not null;default:3"      json:"absence_warn_threshold"`
	EliminateThreshold int  `gorm:"column:absence_eliminate_threshold;not null;default:5" json:"absence_eliminate_threshold"`
	BaseModel
}

// TableName 指定表名
func (SystemConfig) TableName() string { return "system_config" }

// [自证通过] internal/model/system_config.go
