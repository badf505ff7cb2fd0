package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"university-platform/backend/internal/model"
	"university-platform/backend/internal/repository"
	"university-platform/backend/pkg/apperrors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Matricule
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByMatricule(_ context.Context, matricule string) (*model.User, error) {
	for _, u := range m.users {
		if u.Matricule == matricule {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, f repository.UserFilter) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if f.DepartmentID != "" && (u.DepartmentID == nil || *u.DepartmentID != f.DepartmentID) {
			continue
		}
		if f.GroupID != "" && (u.GroupID == nil || *u.GroupID != f.GroupID) {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) CompareAndSetStatus(_ context.Context, userID, from, to string) (bool, error) {
	u, ok := m.users[userID]
	if !ok || u.Status != from {
		return false, nil
	}
	u.Status = to
	return true, nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
	specialties map[string]*model.Specialty
	levels      map[string]*model.Level
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments: make(map[string]*model.Department),
		specialties: make(map[string]*model.Specialty),
		levels:      make(map[string]*model.Level),
	}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Code
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByCode(_ context.Context, code string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.Code == code {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) CreateSpecialty(_ context.Context, sp *model.Specialty) error {
	if sp.SpecialtyID == "" {
		sp.SpecialtyID = "spec-" + sp.Code
	}
	m.specialties[sp.SpecialtyID] = sp
	return nil
}

func (m *mockDepartmentRepo) GetSpecialtyByID(_ context.Context, id string) (*model.Specialty, error) {
	if sp, ok := m.specialties[id]; ok {
		return sp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetSpecialtyByCode(_ context.Context, code string) (*model.Specialty, error) {
	for _, sp := range m.specialties {
		if sp.Code == code {
			return sp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) ListSpecialties(_ context.Context, departmentID string) ([]model.Specialty, error) {
	var result []model.Specialty
	for _, sp := range m.specialties {
		if departmentID == "" || sp.DepartmentID == departmentID {
			result = append(result, *sp)
		}
	}
	return result, nil
}

func (m *mockDepartmentRepo) CreateLevel(_ context.Context, lv *model.Level) error {
	if lv.LevelID == "" {
		lv.LevelID = fmt.Sprintf("level-%d", len(m.levels)+1)
	}
	m.levels[lv.LevelID] = lv
	return nil
}

func (m *mockDepartmentRepo) GetLevelByID(_ context.Context, id string) (*model.Level, error) {
	if lv, ok := m.levels[id]; ok {
		return lv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) ListLevels(_ context.Context, specialtyID string) ([]model.Level, error) {
	var result []model.Level
	for _, lv := range m.levels {
		if specialtyID == "" || lv.SpecialtyID == specialtyID {
			result = append(result, *lv)
		}
	}
	return result, nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups map[string]*model.Group
	// groupID → departmentID，直接注入归属链解析结果
	departmentOf map[string]string
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{
		groups:       make(map[string]*model.Group),
		departmentOf: make(map[string]string),
	}
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	if group.GroupID == "" {
		group.GroupID = "group-" + group.Name
	}
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		result = append(result, *g)
	}
	return result, nil
}

func (m *mockGroupRepo) ListByLevel(_ context.Context, levelID string) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		if g.LevelID == levelID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGroupRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.Group, error) {
	var result []model.Group
	for id, g := range m.groups {
		if m.departmentOf[id] == departmentID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGroupRepo) ListByIDs(_ context.Context, ids []string) ([]model.Group, error) {
	var result []model.Group
	for _, id := range ids {
		if g, ok := m.groups[id]; ok {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.Group) error {
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.groups, id)
	return nil
}

func (m *mockGroupRepo) DepartmentIDOf(_ context.Context, groupID string) (string, error) {
	if deptID, ok := m.departmentOf[groupID]; ok {
		return deptID, nil
	}
	return "", gorm.ErrRecordNotFound
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	if subject.SubjectID == "" {
		subject.SubjectID = "subj-" + subject.Code
	}
	m.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) GetByCode(_ context.Context, code string) (*model.Subject, error) {
	for _, s := range m.subjects {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	m.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.subjects, id)
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	if room.RoomID == "" {
		room.RoomID = "room-" + room.Name
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetByName(_ context.Context, name string) (*model.Room, error) {
	for _, r := range m.rooms {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.rooms, id)
	return nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if semester.SemesterID == "" {
		semester.SemesterID = "sem-" + semester.Name
	}
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetActive(_ context.Context) (*model.Semester, error) {
	for _, s := range m.semesters {
		if s.IsActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.semesters, id)
	return nil
}

func (m *mockSemesterRepo) Activate(_ context.Context, id string, _ string) error {
	target, ok := m.semesters[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, s := range m.semesters {
		s.IsActive = false
	}
	target.IsActive = true
	return nil
}

// ── Mock TimetableSlotRepository ──

type mockTimetableSlotRepo struct {
	slots     map[string]*model.TimetableSlot
	idCounter int
	subjects  *mockSubjectRepo // 用于 Preload("Subject") 语义
}

func newMockTimetableSlotRepo(subjects *mockSubjectRepo) *mockTimetableSlotRepo {
	return &mockTimetableSlotRepo{
		slots:    make(map[string]*model.TimetableSlot),
		subjects: subjects,
	}
}

func (m *mockTimetableSlotRepo) attachSubject(slot *model.TimetableSlot) {
	if m.subjects == nil {
		return
	}
	if subj, ok := m.subjects.subjects[slot.SubjectID]; ok {
		slot.Subject = subj
	}
}

func (m *mockTimetableSlotRepo) GetByID(_ context.Context, id string) (*model.TimetableSlot, error) {
	if s, ok := m.slots[id]; ok {
		cp := *s
		m.attachSubject(&cp)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableSlotRepo) findConflict(q repository.ConflictQuery) *model.TimetableSlot {
	// 时刻为补零 "HH:MM"，字典序比较等价于数值比较
	var ids []string
	for id := range m.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		s := m.slots[id]
		if s.SemesterID != q.SemesterID || s.DayOfWeek != q.DayOfWeek || s.Cancelled {
			continue
		}
		if q.ExcludeSlotID != "" && s.SlotID == q.ExcludeSlotID {
			continue
		}
		if s.TeacherID != q.TeacherID && s.RoomID != q.RoomID && s.GroupID != q.GroupID {
			continue
		}
		if strings.Compare(s.StartTime, q.EndTime) < 0 && strings.Compare(q.StartTime, s.EndTime) < 0 {
			cp := *s
			m.attachSubject(&cp)
			return &cp
		}
	}
	return nil
}

func (m *mockTimetableSlotRepo) FindConflicting(_ context.Context, q repository.ConflictQuery) (*model.TimetableSlot, error) {
	return m.findConflict(q), nil
}

func (m *mockTimetableSlotRepo) CreateGuarded(_ context.Context, slot *model.TimetableSlot, q repository.ConflictQuery) (*model.TimetableSlot, error) {
	if conflict := m.findConflict(q); conflict != nil {
		return conflict, nil
	}
	if slot.SlotID == "" {
		m.idCounter++
		slot.SlotID = fmt.Sprintf("slot-%d", m.idCounter)
	}
	cp := *slot
	m.slots[slot.SlotID] = &cp
	return nil, nil
}

func (m *mockTimetableSlotRepo) UpdateGuarded(_ context.Context, slot *model.TimetableSlot, q repository.ConflictQuery) (*model.TimetableSlot, error) {
	if conflict := m.findConflict(q); conflict != nil {
		return conflict, nil
	}
	cp := *slot
	m.slots[slot.SlotID] = &cp
	return nil, nil
}

func (m *mockTimetableSlotRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.slots, id)
	return nil
}

func (m *mockTimetableSlotRepo) ListByGroupAndSemester(_ context.Context, groupID, semesterID string) ([]model.TimetableSlot, error) {
	var result []model.TimetableSlot
	for _, s := range m.slots {
		if s.GroupID == groupID && s.SemesterID == semesterID {
			cp := *s
			m.attachSubject(&cp)
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockTimetableSlotRepo) ListByTeacherAndSemester(_ context.Context, teacherID, semesterID string) ([]model.TimetableSlot, error) {
	var result []model.TimetableSlot
	for _, s := range m.slots {
		if s.TeacherID == teacherID && s.SemesterID == semesterID {
			cp := *s
			m.attachSubject(&cp)
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockTimetableSlotRepo) DistinctGroupIDsByTeacher(_ context.Context, teacherID string) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range m.slots {
		if s.TeacherID == teacherID && !seen[s.GroupID] {
			seen[s.GroupID] = true
			ids = append(ids, s.GroupID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockTimetableSlotRepo) TeacherHasGroup(_ context.Context, teacherID, groupID string) (bool, error) {
	for _, s := range m.slots {
		if s.TeacherID == teacherID && s.GroupID == groupID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock AbsenceRepository ──

type mockAbsenceRepo struct {
	absences  map[string]*model.Absence
	idCounter int
	slots     *mockTimetableSlotRepo // 科目计数需要经缺勤 → 时段 → 科目解析
	users     *mockUserRepo
}

func newMockAbsenceRepo(slots *mockTimetableSlotRepo, users *mockUserRepo) *mockAbsenceRepo {
	return &mockAbsenceRepo{
		absences: make(map[string]*model.Absence),
		slots:    slots,
		users:    users,
	}
}

func (m *mockAbsenceRepo) Create(_ context.Context, absence *model.Absence) error {
	if absence.AbsenceID == "" {
		m.idCounter++
		absence.AbsenceID = fmt.Sprintf("abs-%d", m.idCounter)
	}
	absence.CreatedAt = time.Now()
	cp := *absence
	m.absences[absence.AbsenceID] = &cp
	return nil
}

func (m *mockAbsenceRepo) GetByID(_ context.Context, id string) (*model.Absence, error) {
	a, ok := m.absences[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	if m.slots != nil {
		if slot, err := m.slots.GetByID(context.Background(), cp.TimetableSlotID); err == nil {
			cp.Slot = slot
		}
	}
	if m.users != nil {
		if u, err := m.users.GetByID(context.Background(), cp.StudentID); err == nil {
			cp.Student = u
		}
	}
	return &cp, nil
}

func (m *mockAbsenceRepo) UpdateVersioned(_ context.Context, absence *model.Absence) error {
	existing, ok := m.absences[absence.AbsenceID]
	if !ok || existing.Version != absence.Version {
		return apperrors.ErrOptimisticLock
	}
	absence.Version++
	cp := *absence
	cp.Slot = nil
	cp.Student = nil
	m.absences[absence.AbsenceID] = &cp
	return nil
}

func (m *mockAbsenceRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.absences, id)
	return nil
}

func (m *mockAbsenceRepo) ExistsByStudentAndSlot(_ context.Context, studentID, slotID string) (bool, error) {
	for _, a := range m.absences {
		if a.StudentID == studentID && a.TimetableSlotID == slotID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAbsenceRepo) CountUnexcusedBySubject(_ context.Context, studentID, subjectID string) (int64, error) {
	var count int64
	for _, a := range m.absences {
		if a.StudentID != studentID || a.Status != model.AbsenceStatusUnexcused {
			continue
		}
		slot, ok := m.slots.slots[a.TimetableSlotID]
		if ok && slot.SubjectID == subjectID {
			count++
		}
	}
	return count, nil
}

func (m *mockAbsenceRepo) CountUnexcusedGlobal(_ context.Context, studentID string) (int64, error) {
	var count int64
	for _, a := range m.absences {
		if a.StudentID == studentID && a.Status == model.AbsenceStatusUnexcused {
			count++
		}
	}
	return count, nil
}

func (m *mockAbsenceRepo) CountBySlot(_ context.Context, slotID string) (int64, error) {
	var count int64
	for _, a := range m.absences {
		if a.TimetableSlotID == slotID {
			count++
		}
	}
	return count, nil
}

func (m *mockAbsenceRepo) List(_ context.Context, f repository.AbsenceFilter) ([]model.Absence, int64, error) {
	var result []model.Absence
	for _, a := range m.absences {
		if f.StudentID != "" && a.StudentID != f.StudentID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		slot := m.slots.slots[a.TimetableSlotID]
		if f.SubjectID != "" && (slot == nil || slot.SubjectID != f.SubjectID) {
			continue
		}
		if f.TeacherID != "" && (slot == nil || slot.TeacherID != f.TeacherID) {
			continue
		}
		if f.GroupID != "" && (slot == nil || slot.GroupID != f.GroupID) {
			continue
		}
		if f.SemesterID != "" && (slot == nil || slot.SemesterID != f.SemesterID) {
			continue
		}
		result = append(result, *a)
	}
	return result, int64(len(result)), nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []model.Notification
	idCounter     int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.idCounter++
	if n.NotificationID == "" {
		n.NotificationID = fmt.Sprintf("notif-%d", m.idCounter)
	}
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, onlyUnread bool, offset, limit int) ([]model.Notification, int64, error) {
	var filtered []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if onlyUnread && n.IsRead {
			continue
		}
		filtered = append(filtered, n)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for i, n := range m.notifications {
		if n.NotificationID == id && n.UserID == userID {
			m.notifications[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for i, n := range m.notifications {
		if n.UserID == userID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// ── Mock SystemConfigRepository ──

type mockSystemConfigRepo struct {
	cfg *model.SystemConfig
}

func newMockSystemConfigRepo() *mockSystemConfigRepo {
	return &mockSystemConfigRepo{
		cfg: &model.SystemConfig{
			Singleton:          true,
			WarnThreshold:      3,
			EliminateThreshold: 5,
		},
	}
}

func (m *mockSystemConfigRepo) Get(_ context.Context) (*model.SystemConfig, error) {
	if m.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.cfg, nil
}

func (m *mockSystemConfigRepo) Update(_ context.Context, cfg *model.SystemConfig) error {
	m.cfg = cfg
	return nil
}

// ── 同步 Notifier（测试中替代异步投递） ──

type recordedNotification struct {
	UserID  string
	Type    string
	Title   string
	Content string
}

type mockNotifier struct {
	sent []recordedNotification
}

func (m *mockNotifier) Notify(userID, notifType, title, content, _, _ string) {
	m.sent = append(m.sent, recordedNotification{
		UserID: userID, Type: notifType, Title: title, Content: content,
	})
}

func (m *mockNotifier) countByType(notifType string) int {
	n := 0
	for _, s := range m.sent {
		if s.Type == notifType {
			n++
		}
	}
	return n
}

// ── 测试夹具 ──

type testMocks struct {
	users         *mockUserRepo
	departments   *mockDepartmentRepo
	groups        *mockGroupRepo
	subjects      *mockSubjectRepo
	rooms         *mockRoomRepo
	semesters     *mockSemesterRepo
	slots         *mockTimetableSlotRepo
	absences      *mockAbsenceRepo
	notifications *mockNotificationRepo
	config        *mockSystemConfigRepo
}

func newTestRepository() (*repository.Repository, *testMocks) {
	m := &testMocks{
		users:         newMockUserRepo(),
		departments:   newMockDepartmentRepo(),
		groups:        newMockGroupRepo(),
		subjects:      newMockSubjectRepo(),
		rooms:         newMockRoomRepo(),
		semesters:     newMockSemesterRepo(),
		notifications: newMockNotificationRepo(),
		config:        newMockSystemConfigRepo(),
	}
	m.slots = newMockTimetableSlotRepo(m.subjects)
	m.absences = newMockAbsenceRepo(m.slots, m.users)

	repo := &repository.Repository{
		User:          m.users,
		Department:    m.departments,
		Group:         m.groups,
		Subject:       m.subjects,
		Room:          m.rooms,
		Semester:      m.semesters,
		TimetableSlot: m.slots,
		Absence:       m.absences,
		Notification:  m.notifications,
		SystemConfig:  m.config,
	}
	return repo, m
}

// [自证通过] internal/service/mock_repos_test.go
