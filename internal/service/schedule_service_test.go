package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"university-platform/backend/internal/dto"
	"university-platform/backend/internal/model"
	"university-platform/backend/pkg/apperrors"
)

var adminActor = Actor{UserID: "admin-1", Role: model.RoleAdmin}

// 构造：sem-1 学期，两名教师、两间教室、两个班组，
// 基准时段 slot-base = 周一 08:00-09:30 (teacher-1, room-1, group-A)
func setupScheduleFixture(t *testing.T) (ScheduleService, *testMocks) {
	t.Helper()
	repo, mocks := newTestRepository()

	mocks.semesters.semesters["sem-1"] = &model.Semester{SemesterID: "sem-1", Name: "S1", IsActive: true}
	mocks.subjects.subjects["subj-1"] = &model.Subject{SubjectID: "subj-1", Name: "代数", Code: "ALG"}
	mocks.subjects.subjects["subj-2"] = &model.Subject{SubjectID: "subj-2", Name: "分析", Code: "ANA"}
	mocks.rooms.rooms["room-1"] = &model.Room{RoomID: "room-1", Name: "A101"}
	mocks.rooms.rooms["room-2"] = &model.Room{RoomID: "room-2", Name: "A102"}
	mocks.groups.groups["group-A"] = &model.Group{GroupID: "group-A", Name: "A"}
	mocks.groups.groups["group-B"] = &model.Group{GroupID: "group-B", Name: "B"}
	mocks.groups.departmentOf["group-A"] = "dept-A"
	mocks.groups.departmentOf["group-B"] = "dept-B"
	mocks.users.users["teacher-1"] = &model.User{UserID: "teacher-1", Name: "教师一", Role: model.RoleTeacher}
	mocks.users.users["teacher-2"] = &model.User{UserID: "teacher-2", Name: "教师二", Role: model.RoleTeacher}
	groupA := "group-A"
	mocks.users.users["stu-1"] = &model.User{UserID: "stu-1", Name: "学生一", Role: model.RoleStudent, Status: model.UserStatusActive, GroupID: &groupA}

	mocks.slots.slots["slot-base"] = &model.TimetableSlot{
		SlotID: "slot-base", SemesterID: "sem-1", DayOfWeek: 1,
		StartTime: "08:00", EndTime: "09:30",
		SubjectID: "subj-1", TeacherID: "teacher-1", RoomID: "room-1", GroupID: "group-A",
		SessionType: model.SessionTypeLecture,
	}

	access := NewAccessService(repo, zap.NewNop())
	return NewScheduleService(repo, access, zap.NewNop()), mocks
}

func baseCreateRequest() *dto.CreateSlotRequest {
	return &dto.CreateSlotRequest{
		SemesterID: "sem-1", DayOfWeek: 1,
		StartTime: "10:00", EndTime: "11:30",
		SubjectID: "subj-2", TeacherID: "teacher-2", RoomID: "room-2", GroupID: "group-B",
		SessionType: model.SessionTypeLecture,
	}
}

func TestCreateSlot(t *testing.T) {
	svc, mocks := setupScheduleFixture(t)
	ctx := context.Background()

	resp, err := svc.CreateSlot(ctx, baseCreateRequest(), adminActor)
	if err != nil {
		t.Fatalf("创建时段期望成功，实际=%v", err)
	}
	if resp.ID == "" {
		t.Error("期望返回非空时段 ID")
	}
	if resp.Subject == nil || resp.Subject.Name != "分析" {
		t.Errorf("期望带科目名称的响应，实际=%+v", resp.Subject)
	}
	if _, ok := mocks.slots.slots[resp.ID]; !ok {
		t.Error("期望时段已写入仓储")
	}
}

func TestCreateSlotConflictAxes(t *testing.T) {
	// 与 slot-base (周一 08:00-09:30, teacher-1/room-1/group-A) 逐轴碰撞
	cases := []struct {
		name     string
		mutate   func(req *dto.CreateSlotRequest)
		wantAxis string
	}{
		{"教师轴冲突", func(req *dto.CreateSlotRequest) {
			req.TeacherID = "teacher-1"
		}, "teacher"},
		{"教室轴冲突", func(req *dto.CreateSlotRequest) {
			req.RoomID = "room-1"
		}, "room"},
		{"班组轴冲突", func(req *dto.CreateSlotRequest) {
			req.GroupID = "group-A"
		}, "group"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := setupScheduleFixture(t)
			req := baseCreateRequest()
			req.StartTime, req.EndTime = "08:30", "10:00" // 与基准时段重叠
			tc.mutate(req)

			_, err := svc.CreateSlot(context.Background(), req, adminActor)
			if !errors.Is(err, apperrors.ErrConflict) {
				t.Fatalf("期望 KindConflict，实际=%v", err)
			}
			detail := apperrors.ConflictOf(err)
			if detail == nil {
				t.Fatal("期望携带冲突详情")
			}
			if detail.Axis != tc.wantAxis {
				t.Errorf("期望冲突轴 %s，实际=%s", tc.wantAxis, detail.Axis)
			}
			if detail.SlotID != "slot-base" {
				t.Errorf("期望冲突时段 slot-base，实际=%s", detail.SlotID)
			}
		})
	}
}

func TestCreateSlotTouchingBoundaryNoConflict(t *testing.T) {
	svc, _ := setupScheduleFixture(t)

	// 紧贴基准时段结束点，同教师同教室同班组亦不冲突
	req := baseCreateRequest()
	req.StartTime, req.EndTime = "09:30", "11:00"
	req.TeacherID, req.RoomID, req.GroupID = "teacher-1", "room-1", "group-A"

	if _, err := svc.CreateSlot(context.Background(), req, adminActor); err != nil {
		t.Fatalf("贴边时段期望不冲突，实际=%v", err)
	}
}

func TestCreateSlotDifferentDayNoConflict(t *testing.T) {
	svc, _ := setupScheduleFixture(t)

	req := baseCreateRequest()
	req.DayOfWeek = 2
	req.StartTime, req.EndTime = "08:00", "09:30"
	req.TeacherID, req.RoomID, req.GroupID = "teacher-1", "room-1", "group-A"

	if _, err := svc.CreateSlot(context.Background(), req, adminActor); err != nil {
		t.Fatalf("不同星期期望不冲突，实际=%v", err)
	}
}

func TestCreateSlotValidation(t *testing.T) {
	svc, _ := setupScheduleFixture(t)
	ctx := context.Background()

	t.Run("时间倒置", func(t *testing.T) {
		req := baseCreateRequest()
		req.StartTime, req.EndTime = "11:00", "10:00"
		if _, err := svc.CreateSlot(ctx, req, adminActor); !errors.Is(err, apperrors.ErrInvalidFormat) {
			t.Errorf("期望 KindInvalidFormat，实际=%v", err)
		}
	})

	t.Run("教师不存在", func(t *testing.T) {
		req := baseCreateRequest()
		req.TeacherID = "teacher-missing"
		if _, err := svc.CreateSlot(ctx, req, adminActor); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("期望 KindNotFound，实际=%v", err)
		}
	})

	t.Run("teacher_id 指向学生", func(t *testing.T) {
		req := baseCreateRequest()
		req.TeacherID = "stu-1"
		if _, err := svc.CreateSlot(ctx, req, adminActor); !errors.Is(err, apperrors.ErrInvalidFormat) {
			t.Errorf("期望 KindInvalidFormat，实际=%v", err)
		}
	})

	t.Run("教师角色无权创建", func(t *testing.T) {
		req := baseCreateRequest()
		actor := Actor{UserID: "teacher-2", Role: model.RoleTeacher}
		if _, err := svc.CreateSlot(ctx, req, actor); !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("期望 KindForbidden，实际=%v", err)
		}
	})

	t.Run("他院系系主任无权创建", func(t *testing.T) {
		req := baseCreateRequest()
		req.GroupID = "group-A"
		req.StartTime, req.EndTime = "14:00", "15:30"
		actor := Actor{UserID: "head-B", Role: model.RoleDepartmentHead, DepartmentID: "dept-B"}
		if _, err := svc.CreateSlot(ctx, req, actor); !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("期望 KindForbidden，实际=%v", err)
		}
	})
}

func TestUpdateSlotExcludesSelf(t *testing.T) {
	svc, _ := setupScheduleFixture(t)

	// 在原时段范围内缩短结束时间：与自身重叠不应判为冲突
	newEnd := "09:00"
	resp, err := svc.UpdateSlot(context.Background(), "slot-base", &dto.UpdateSlotRequest{EndTime: &newEnd}, adminActor)
	if err != nil {
		t.Fatalf("更新自身时段期望成功，实际=%v", err)
	}
	if resp.EndTime != "09:00" {
		t.Errorf("期望结束时间 09:00，实际=%s", resp.EndTime)
	}
}

func TestUpdateSlotConflictWithOther(t *testing.T) {
	svc, mocks := setupScheduleFixture(t)

	mocks.slots.slots["slot-2"] = &model.TimetableSlot{
		SlotID: "slot-2", SemesterID: "sem-1", DayOfWeek: 1,
		StartTime: "10:00", EndTime: "11:30",
		SubjectID: "subj-2", TeacherID: "teacher-1", RoomID: "room-2", GroupID: "group-A",
	}

	// 把 slot-2 移进 slot-base 的时段，教师轴撞车
	newStart, newEnd := "08:30", "10:00"
	_, err := svc.UpdateSlot(context.Background(), "slot-2",
		&dto.UpdateSlotRequest{StartTime: &newStart, EndTime: &newEnd}, adminActor)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("期望 KindConflict，实际=%v", err)
	}
	if detail := apperrors.ConflictOf(err); detail == nil || detail.SlotID != "slot-base" {
		t.Errorf("期望冲突时段 slot-base，实际=%+v", detail)
	}
}

func TestUpdateSlotMoveGroup(t *testing.T) {
	t.Run("需要目标班组编辑权", func(t *testing.T) {
		svc, _ := setupScheduleFixture(t)
		headA := Actor{UserID: "head-A", Role: model.RoleDepartmentHead, DepartmentID: "dept-A"}

		// dept-A 的系主任把时段迁往 dept-B 的班组：目标班组无编辑权
		groupB := "group-B"
		_, err := svc.UpdateSlot(context.Background(), "slot-base",
			&dto.UpdateSlotRequest{GroupID: &groupB}, headA)
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Fatalf("期望 KindForbidden，实际=%v", err)
		}
	})

	t.Run("迁入班组后按新班组查冲突", func(t *testing.T) {
		svc, mocks := setupScheduleFixture(t)
		mocks.slots.slots["slot-B"] = &model.TimetableSlot{
			SlotID: "slot-B", SemesterID: "sem-1", DayOfWeek: 1,
			StartTime: "08:00", EndTime: "09:30",
			SubjectID: "subj-2", TeacherID: "teacher-2", RoomID: "room-2", GroupID: "group-B",
		}

		groupB := "group-B"
		_, err := svc.UpdateSlot(context.Background(), "slot-base",
			&dto.UpdateSlotRequest{GroupID: &groupB}, adminActor)
		if !errors.Is(err, apperrors.ErrConflict) {
			t.Fatalf("期望 KindConflict，实际=%v", err)
		}
		if detail := apperrors.ConflictOf(err); detail == nil || detail.Axis != "group" {
			t.Errorf("期望班组轴冲突，实际=%+v", detail)
		}
		if mocks.slots.slots["slot-base"].GroupID != "group-A" {
			t.Error("冲突时迁移不应落库")
		}
	})

	t.Run("无冲突时迁移成功", func(t *testing.T) {
		svc, mocks := setupScheduleFixture(t)

		groupB := "group-B"
		if _, err := svc.UpdateSlot(context.Background(), "slot-base",
			&dto.UpdateSlotRequest{GroupID: &groupB}, adminActor); err != nil {
			t.Fatalf("迁移期望成功，实际=%v", err)
		}
		if mocks.slots.slots["slot-base"].GroupID != "group-B" {
			t.Errorf("期望 GroupID=group-B，实际=%s", mocks.slots.slots["slot-base"].GroupID)
		}
	})
}

func TestUpdateSlotMoveSemester(t *testing.T) {
	svc, mocks := setupScheduleFixture(t)
	mocks.semesters.semesters["sem-2"] = &model.Semester{SemesterID: "sem-2", Name: "S2"}

	sem2 := "sem-2"
	resp, err := svc.UpdateSlot(context.Background(), "slot-base",
		&dto.UpdateSlotRequest{SemesterID: &sem2}, adminActor)
	if err != nil {
		t.Fatalf("迁移学期期望成功，实际=%v", err)
	}
	if resp.SemesterID != "sem-2" {
		t.Errorf("期望 SemesterID=sem-2，实际=%s", resp.SemesterID)
	}

	// 引用不存在的学期被引用校验拦下
	missing := "sem-missing"
	_, err = svc.UpdateSlot(context.Background(), "slot-base",
		&dto.UpdateSlotRequest{SemesterID: &missing}, adminActor)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("期望 KindNotFound，实际=%v", err)
	}
}

func TestDeleteSlot(t *testing.T) {
	t.Run("无缺勤记录可删除", func(t *testing.T) {
		svc, mocks := setupScheduleFixture(t)
		if err := svc.DeleteSlot(context.Background(), "slot-base", adminActor); err != nil {
			t.Fatalf("删除期望成功，实际=%v", err)
		}
		if _, ok := mocks.slots.slots["slot-base"]; ok {
			t.Error("期望时段已从仓储移除")
		}
	})

	t.Run("挂有缺勤记录拒绝删除", func(t *testing.T) {
		svc, mocks := setupScheduleFixture(t)
		mocks.absences.absences["abs-1"] = &model.Absence{
			AbsenceID: "abs-1", StudentID: "stu-1", TimetableSlotID: "slot-base",
			Status: model.AbsenceStatusUnexcused,
		}
		err := svc.DeleteSlot(context.Background(), "slot-base", adminActor)
		if !errors.Is(err, apperrors.ErrConflict) {
			t.Fatalf("期望 KindConflict，实际=%v", err)
		}
	})
}

func TestGroupWeek(t *testing.T) {
	svc, mocks := setupScheduleFixture(t)
	mocks.slots.slots["slot-wed"] = &model.TimetableSlot{
		SlotID: "slot-wed", SemesterID: "sem-1", DayOfWeek: 3,
		StartTime: "14:00", EndTime: "15:30",
		SubjectID: "subj-2", TeacherID: "teacher-2", RoomID: "room-2", GroupID: "group-A",
	}

	// semesterID 缺省时回落到活动学期
	view, err := svc.GroupWeek(context.Background(), "group-A", "", adminActor)
	if err != nil {
		t.Fatalf("周视图期望成功，实际=%v", err)
	}
	if view.SemesterID != "sem-1" {
		t.Errorf("期望回落到活动学期 sem-1，实际=%s", view.SemesterID)
	}
	if len(view.Days[1]) != 1 || len(view.Days[3]) != 1 {
		t.Errorf("期望周一/周三各 1 个时段，实际=%v", view.Days)
	}

	// 学生看他班组
	stuActor := Actor{UserID: "stu-1", Role: model.RoleStudent, GroupID: "group-B"}
	if _, err := svc.GroupWeek(context.Background(), "group-A", "", stuActor); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("期望 KindForbidden，实际=%v", err)
	}
}

func TestTeacherWeek(t *testing.T) {
	svc, _ := setupScheduleFixture(t)
	ctx := context.Background()

	self := Actor{UserID: "teacher-1", Role: model.RoleTeacher}
	view, err := svc.TeacherWeek(ctx, "teacher-1", "sem-1", self)
	if err != nil {
		t.Fatalf("教师看本人课表期望成功，实际=%v", err)
	}
	if len(view.Days[1]) != 1 {
		t.Errorf("期望周一 1 个时段，实际=%v", view.Days)
	}

	other := Actor{UserID: "teacher-2", Role: model.RoleTeacher}
	if _, err := svc.TeacherWeek(ctx, "teacher-1", "sem-1", other); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("期望 KindForbidden，实际=%v", err)
	}

	if _, err := svc.TeacherWeek(ctx, "teacher-1", "sem-1", adminActor); err != nil {
		t.Errorf("管理员看任意教师课表期望成功，实际=%v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	svc, _ := setupScheduleFixture(t)
	ctx := context.Background()
	teacherActor := Actor{UserID: "teacher-1", Role: model.RoleTeacher}

	t.Run("占用时段", func(t *testing.T) {
		resp, err := svc.CheckAvailability(ctx, &dto.AvailabilityRequest{
			SemesterID: "sem-1", DayOfWeek: 1, StartTime: "08:30", EndTime: "09:00",
			TeacherID: "teacher-1",
		}, teacherActor)
		if err != nil {
			t.Fatalf("探测期望成功，实际=%v", err)
		}
		if resp.Available {
			t.Error("期望不可用，实际=可用")
		}
		if resp.Conflict == nil || resp.Conflict.ID != "slot-base" {
			t.Errorf("期望返回冲突时段 slot-base，实际=%+v", resp.Conflict)
		}
	})

	t.Run("空闲时段", func(t *testing.T) {
		resp, err := svc.CheckAvailability(ctx, &dto.AvailabilityRequest{
			SemesterID: "sem-1", DayOfWeek: 1, StartTime: "09:30", EndTime: "11:00",
			TeacherID: "teacher-1",
		}, teacherActor)
		if err != nil {
			t.Fatalf("探测期望成功，实际=%v", err)
		}
		if !resp.Available {
			t.Error("期望可用，实际=不可用")
		}
	})

	t.Run("未指定资源轴", func(t *testing.T) {
		_, err := svc.CheckAvailability(ctx, &dto.AvailabilityRequest{
			SemesterID: "sem-1", DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00",
		}, teacherActor)
		if !errors.Is(err, apperrors.ErrInvalidFormat) {
			t.Errorf("期望 KindInvalidFormat，实际=%v", err)
		}
	})

	t.Run("学生无权探测", func(t *testing.T) {
		_, err := svc.CheckAvailability(ctx, &dto.AvailabilityRequest{
			SemesterID: "sem-1", DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00",
			TeacherID: "teacher-1",
		}, Actor{UserID: "stu-1", Role: model.RoleStudent, GroupID: "group-A"})
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("期望 KindForbidden，实际=%v", err)
		}
	})
}

// [自证通过] internal/service/schedule_service_test.go
