//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"university-platform/backend/internal/model"
	"university-platform/backend/internal/repository"
	"university-platform/backend/pkg/apperrors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=univ password=univ_password dbname=univ_test sslmode=disable TimeZone=Africa/Algiers"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	testDB.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Department{},
		&model.Specialty{},
		&model.Level{},
		&model.Group{},
		&model.Room{},
		&model.Subject{},
		&model.Semester{},
		&model.User{},
		&model.TimetableSlot{},
		&model.Absence{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	// AutoMigrate 不生成部分唯一索引，补建（与正式迁移保持一致）
	testDB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS absences_student_slot_key
		ON absences (student_id, timetable_slot_id) WHERE deleted_at IS NULL`)

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建院系链路、教学资源与师生账号，返回清理函数
func setupTestData(t *testing.T) (fx testFixture, cleanup func()) {
	t.Helper()
	ctx := context.Background()
	nano := time.Now().UnixNano()

	fx.Dept = &model.Department{
		Name:     fmt.Sprintf("测试院系-%d", nano),
		Code:     fmt.Sprintf("D%d", nano%1000000),
		IsActive: true,
	}
	mustCreate(t, ctx, fx.Dept)

	fx.Specialty = &model.Specialty{
		DepartmentID: fx.Dept.DepartmentID,
		Name:         "测试专业",
		Code:         fmt.Sprintf("S%d", nano%1000000),
	}
	mustCreate(t, ctx, fx.Specialty)

	fx.Level = &model.Level{
		SpecialtyID:  fx.Specialty.SpecialtyID,
		Name:         "L1",
		AcademicYear: 1,
	}
	mustCreate(t, ctx, fx.Level)

	fx.Group = &model.Group{
		LevelID:  fx.Level.LevelID,
		Name:     "G1",
		Capacity: 30,
	}
	mustCreate(t, ctx, fx.Group)

	fx.Room = &model.Room{
		Name:     fmt.Sprintf("教室-%d", nano),
		Capacity: 40,
		RoomType: "classroom",
	}
	mustCreate(t, ctx, fx.Room)

	fx.Subject = &model.Subject{
		Name: "代数",
		Code: fmt.Sprintf("ALG%d", nano%1000000),
	}
	mustCreate(t, ctx, fx.Subject)

	fx.Semester = &model.Semester{
		Name:      fmt.Sprintf("测试学期-%d", nano),
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
		IsActive:  false,
		Status:    "active",
	}
	mustCreate(t, ctx, fx.Semester)

	fx.Teacher = &model.User{
		Matricule:    fmt.Sprintf("T%d", nano%100000000),
		Name:         "测试教师",
		Email:        fmt.Sprintf("t%d@univ.dz", nano),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleTeacher,
		Status:       model.UserStatusActive,
		DepartmentID: &fx.Dept.DepartmentID,
	}
	mustCreate(t, ctx, fx.Teacher)

	fx.Student = &model.User{
		Matricule:    fmt.Sprintf("E%d", nano%100000000),
		Name:         "测试学生",
		Email:        fmt.Sprintf("e%d@univ.dz", nano),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleStudent,
		Status:       model.UserStatusActive,
		DepartmentID: &fx.Dept.DepartmentID,
		GroupID:      &fx.Group.GroupID,
	}
	mustCreate(t, ctx, fx.Student)

	cleanup = func() {
		testDB.Unscoped().Where("student_id = ?", fx.Student.UserID).Delete(&model.Absence{})
		testDB.Unscoped().Where("semester_id = ?", fx.Semester.SemesterID).Delete(&model.TimetableSlot{})
		testDB.Unscoped().Where("user_id IN ?", []string{fx.Teacher.UserID, fx.Student.UserID}).Delete(&model.User{})
		testDB.Unscoped().Where("semester_id = ?", fx.Semester.SemesterID).Delete(&model.Semester{})
		testDB.Unscoped().Where("subject_id = ?", fx.Subject.SubjectID).Delete(&model.Subject{})
		testDB.Unscoped().Where("room_id = ?", fx.Room.RoomID).Delete(&model.Room{})
		testDB.Unscoped().Where("group_id = ?", fx.Group.GroupID).Delete(&model.Group{})
		testDB.Unscoped().Where("level_id = ?", fx.Level.LevelID).Delete(&model.Level{})
		testDB.Unscoped().Where("specialty_id = ?", fx.Specialty.SpecialtyID).Delete(&model.Specialty{})
		testDB.Unscoped().Where("department_id = ?", fx.Dept.DepartmentID).Delete(&model.Department{})
	}
	return fx, cleanup
}

type testFixture struct {
	Dept      *model.Department
	Specialty *model.Specialty
	Level     *model.Level
	Group     *model.Group
	Room      *model.Room
	Subject   *model.Subject
	Semester  *model.Semester
	Teacher   *model.User
	Student   *model.User
}

func mustCreate(t *testing.T, ctx context.Context, v interface{}) {
	t.Helper()
	if err := testDB.WithContext(ctx).Create(v).Error; err != nil {
		t.Fatalf("创建测试数据失败: %v", err)
	}
}

func (fx testFixture) newSlot(day int, start, end string) *model.TimetableSlot {
	return &model.TimetableSlot{
		SemesterID:  fx.Semester.SemesterID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		SubjectID:   fx.Subject.SubjectID,
		TeacherID:   fx.Teacher.UserID,
		RoomID:      fx.Room.RoomID,
		GroupID:     fx.Group.GroupID,
		SessionType: model.SessionTypeLecture,
	}
}

func (fx testFixture) conflictQuery(slot *model.TimetableSlot) repository.ConflictQuery {
	return repository.ConflictQuery{
		SemesterID:    slot.SemesterID,
		DayOfWeek:     slot.DayOfWeek,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		TeacherID:     slot.TeacherID,
		RoomID:        slot.RoomID,
		GroupID:       slot.GroupID,
		ExcludeSlotID: slot.SlotID,
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Guarded Conflict Detection
// ═══════════════════════════════════════════════════════════

func TestCreateGuarded_ConflictBlocksWrite(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	base := fx.newSlot(1, "08:00", "09:30")
	q := fx.conflictQuery(base)
	q.ExcludeSlotID = ""
	conflict, err := repo.TimetableSlot.CreateGuarded(ctx, base, q)
	if err != nil {
		t.Fatalf("首次 CreateGuarded 失败: %v", err)
	}
	if conflict != nil {
		t.Fatalf("空课表不应检出冲突，实际命中 %s", conflict.SlotID)
	}

	// 时段重叠且教师相同：应检出冲突且不写入
	overlap := fx.newSlot(1, "08:30", "10:00")
	q2 := fx.conflictQuery(overlap)
	q2.ExcludeSlotID = ""
	conflict, err = repo.TimetableSlot.CreateGuarded(ctx, overlap, q2)
	if err != nil {
		t.Fatalf("CreateGuarded 失败: %v", err)
	}
	if conflict == nil {
		t.Fatal("期望检出冲突，实际未检出")
	}
	if conflict.SlotID != base.SlotID {
		t.Errorf("期望命中 %s，实际=%s", base.SlotID, conflict.SlotID)
	}

	var count int64
	testDB.Model(&model.TimetableSlot{}).
		Where("semester_id = ?", fx.Semester.SemesterID).Count(&count)
	if count != 1 {
		t.Errorf("冲突时不应写入，期望 1 条记录，实际=%d", count)
	}
}

func TestCreateGuarded_TouchingBoundaryAllowed(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	base := fx.newSlot(1, "08:00", "09:30")
	q := fx.conflictQuery(base)
	q.ExcludeSlotID = ""
	if _, err := repo.TimetableSlot.CreateGuarded(ctx, base, q); err != nil {
		t.Fatalf("CreateGuarded 失败: %v", err)
	}

	// 贴边时段（前一节的 end == 后一节的 start）不算冲突
	next := fx.newSlot(1, "09:30", "11:00")
	q2 := fx.conflictQuery(next)
	q2.ExcludeSlotID = ""
	conflict, err := repo.TimetableSlot.CreateGuarded(ctx, next, q2)
	if err != nil {
		t.Fatalf("CreateGuarded 失败: %v", err)
	}
	if conflict != nil {
		t.Errorf("贴边时段不应冲突，实际命中 %s", conflict.SlotID)
	}
}

func TestUpdateGuarded_ExcludesSelf(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	slot := fx.newSlot(1, "08:00", "09:30")
	q := fx.conflictQuery(slot)
	q.ExcludeSlotID = ""
	if _, err := repo.TimetableSlot.CreateGuarded(ctx, slot, q); err != nil {
		t.Fatalf("CreateGuarded 失败: %v", err)
	}

	// 仅收缩本节课的结束时间：排除自身后不应与自己冲突
	slot.EndTime = "09:00"
	conflict, err := repo.TimetableSlot.UpdateGuarded(ctx, slot, fx.conflictQuery(slot))
	if err != nil {
		t.Fatalf("UpdateGuarded 失败: %v", err)
	}
	if conflict != nil {
		t.Errorf("更新自身不应冲突，实际命中 %s", conflict.SlotID)
	}

	got, err := repo.TimetableSlot.GetByID(ctx, slot.SlotID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if got.EndTime != "09:00" {
		t.Errorf("期望 EndTime=09:00，实际=%s", got.EndTime)
	}
}

func TestFindConflicting_PartialAxes(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	slot := fx.newSlot(1, "08:00", "09:30")
	mustCreate(t, ctx, slot)

	// 单轴探测：uuid 列不允许与空串比较，空轴必须不进 SQL
	probe := repository.ConflictQuery{
		SemesterID: fx.Semester.SemesterID,
		DayOfWeek:  1,
		StartTime:  "08:30",
		EndTime:    "10:00",
		RoomID:     fx.Room.RoomID,
	}
	conflict, err := repo.TimetableSlot.FindConflicting(ctx, probe)
	if err != nil {
		t.Fatalf("单轴探测失败: %v", err)
	}
	if conflict == nil || conflict.SlotID != slot.SlotID {
		t.Errorf("期望命中 %s，实际=%v", slot.SlotID, conflict)
	}

	// 双轴探测：仅教师轴命中
	probe = repository.ConflictQuery{
		SemesterID: fx.Semester.SemesterID,
		DayOfWeek:  1,
		StartTime:  "08:30",
		EndTime:    "10:00",
		TeacherID:  fx.Teacher.UserID,
		GroupID:    fx.Group.GroupID,
	}
	conflict, err = repo.TimetableSlot.FindConflicting(ctx, probe)
	if err != nil {
		t.Fatalf("双轴探测失败: %v", err)
	}
	if conflict == nil {
		t.Error("期望检出教师轴冲突")
	}

	// 单轴探测另一位教师：应判定空闲
	probe = repository.ConflictQuery{
		SemesterID: fx.Semester.SemesterID,
		DayOfWeek:  1,
		StartTime:  "08:30",
		EndTime:    "10:00",
		TeacherID:  fx.Student.UserID, // 与已排教师不同的合法 uuid
	}
	conflict, err = repo.TimetableSlot.FindConflicting(ctx, probe)
	if err != nil {
		t.Fatalf("单轴探测失败: %v", err)
	}
	if conflict != nil {
		t.Errorf("其他教师应空闲，实际命中 %s", conflict.SlotID)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Absence Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestAbsence_OptimisticLock(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	slot := fx.newSlot(1, "08:00", "09:30")
	mustCreate(t, ctx, slot)

	absence := &model.Absence{
		StudentID:       fx.Student.UserID,
		TimetableSlotID: slot.SlotID,
		Status:          model.AbsenceStatusUnexcused,
		RecordedBy:      fx.Teacher.UserID,
	}
	if err := repo.Absence.Create(ctx, absence); err != nil {
		t.Fatalf("创建缺勤记录失败: %v", err)
	}

	// 模拟并发：获取两份副本
	copy1, _ := repo.Absence.GetByID(ctx, absence.AbsenceID)
	copy2, _ := repo.Absence.GetByID(ctx, absence.AbsenceID)

	copy1.Status = model.AbsenceStatusPending
	if err := repo.Absence.UpdateVersioned(ctx, copy1); err != nil {
		t.Fatalf("第一次更新应成功: %v", err)
	}
	if copy1.Version != 2 {
		t.Errorf("期望 version=2，实际=%d", copy1.Version)
	}

	// 第二份副本持有过期 version，更新应失败
	copy2.Status = model.AbsenceStatusExcused
	err := repo.Absence.UpdateVersioned(ctx, copy2)
	if err != apperrors.ErrOptimisticLock {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

func TestAbsence_UniqueStudentSlot(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	slot := fx.newSlot(1, "08:00", "09:30")
	mustCreate(t, ctx, slot)

	first := &model.Absence{
		StudentID:       fx.Student.UserID,
		TimetableSlotID: slot.SlotID,
		Status:          model.AbsenceStatusUnexcused,
		RecordedBy:      fx.Teacher.UserID,
	}
	if err := repo.Absence.Create(ctx, first); err != nil {
		t.Fatalf("创建缺勤记录失败: %v", err)
	}

	exists, err := repo.Absence.ExistsByStudentAndSlot(ctx, fx.Student.UserID, slot.SlotID)
	if err != nil {
		t.Fatalf("ExistsByStudentAndSlot 失败: %v", err)
	}
	if !exists {
		t.Error("期望已存在记录")
	}

	// 重复记录：数据库唯一索引兜底
	dup := &model.Absence{
		StudentID:       fx.Student.UserID,
		TimetableSlotID: slot.SlotID,
		Status:          model.AbsenceStatusUnexcused,
		RecordedBy:      fx.Teacher.UserID,
	}
	if err := repo.Absence.Create(ctx, dup); err == nil {
		t.Error("期望唯一约束违反，但创建成功了")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Absence Counting
// ═══════════════════════════════════════════════════════════

func TestAbsence_CountUnexcused(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	nano := time.Now().UnixNano()

	other := &model.Subject{Name: "分析", Code: fmt.Sprintf("ANA%d", nano%1000000)}
	mustCreate(t, ctx, other)
	defer testDB.Unscoped().Where("subject_id = ?", other.SubjectID).Delete(&model.Subject{})

	// 科目一 2 节，科目二 1 节
	starts := [][2]string{{"08:00", "09:30"}, {"10:00", "11:30"}, {"13:00", "14:30"}}
	for i, s := range starts {
		slot := fx.newSlot(i+1, s[0], s[1])
		if i == 2 {
			slot.SubjectID = other.SubjectID
		}
		mustCreate(t, ctx, slot)

		status := model.AbsenceStatusUnexcused
		if i == 1 {
			status = model.AbsenceStatusPending // 审核中的记录不计入
		}
		mustCreate(t, ctx, &model.Absence{
			StudentID:       fx.Student.UserID,
			TimetableSlotID: slot.SlotID,
			Status:          status,
			RecordedBy:      fx.Teacher.UserID,
		})
	}

	bySubject, err := repo.Absence.CountUnexcusedBySubject(ctx, fx.Student.UserID, fx.Subject.SubjectID)
	if err != nil {
		t.Fatalf("CountUnexcusedBySubject 失败: %v", err)
	}
	if bySubject != 1 {
		t.Errorf("科目内未请假计数期望 1，实际=%d", bySubject)
	}

	global, err := repo.Absence.CountUnexcusedGlobal(ctx, fx.Student.UserID)
	if err != nil {
		t.Fatalf("CountUnexcusedGlobal 失败: %v", err)
	}
	if global != 2 {
		t.Errorf("全局未请假计数期望 2，实际=%d", global)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Soft Delete
// ═══════════════════════════════════════════════════════════

func TestSlot_SoftDelete(t *testing.T) {
	fx, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	slot := fx.newSlot(1, "08:00", "09:30")
	mustCreate(t, ctx, slot)

	if err := repo.TimetableSlot.Delete(ctx, slot.SlotID, fx.Teacher.UserID); err != nil {
		t.Fatalf("软删除失败: %v", err)
	}

	// 常规查询应找不到
	if _, err := repo.TimetableSlot.GetByID(ctx, slot.SlotID); err == nil {
		t.Fatal("软删除后应查不到记录")
	}

	// Unscoped 查询应能找到且记录了删除人
	var found model.TimetableSlot
	if err := testDB.Unscoped().Where("slot_id = ?", slot.SlotID).First(&found).Error; err != nil {
		t.Fatalf("Unscoped 查询应能找到: %v", err)
	}
	if found.DeletedBy == nil || *found.DeletedBy != fx.Teacher.UserID {
		t.Error("DeletedBy 应记录删除人")
	}
}
