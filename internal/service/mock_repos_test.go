package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alpimi-planner/backend/internal/model"
	"alpimi-planner/backend/internal/repository"
	"alpimi-planner/backend/pkg/redis"
)

// mockStore 所有 mock repo 共享的内存数据
type mockStore struct {
	schedules   map[string]*model.Schedule
	settings    map[string]*model.ScheduleSettings // key: schedule_id
	lessons     map[string]*model.Lesson
	teachers    map[string]*model.Teacher
	classrooms  map[string]*model.Classroom
	blocks      map[string]*model.LessonBlock
	settingsHit int   // GetByScheduleID 调用次数
	insertErr   error // BatchCreate 注入错误
	onLock      func(lessonID string) // LockByID 成功时回调，模拟锁等待期间的并发写入
}

func newMockStore() *mockStore {
	return &mockStore{
		schedules:  make(map[string]*model.Schedule),
		settings:   make(map[string]*model.ScheduleSettings),
		lessons:    make(map[string]*model.Lesson),
		teachers:   make(map[string]*model.Teacher),
		classrooms: make(map[string]*model.Classroom),
		blocks:     make(map[string]*model.LessonBlock),
	}
}

func (s *mockStore) toRepository() *repository.Repository {
	return &repository.Repository{
		Schedule:         &mockScheduleRepo{s},
		ScheduleSettings: &mockScheduleSettingsRepo{s},
		Lesson:           &mockLessonRepo{s},
		Teacher:          &mockTeacherRepo{s},
		Classroom:        &mockClassroomRepo{s},
		LessonBlock:      &mockLessonBlockRepo{s},
	}
}

// visible 模拟 AccessScope 的所有权过滤
func (s *mockStore) visible(scheduleID string, scope repository.AccessScope) bool {
	if scope.Privileged {
		return true
	}
	sch, ok := s.schedules[scheduleID]
	return ok && sch.UserID == scope.UserID
}

func (s *mockStore) lessonSchedule(lessonID string) string {
	if l, ok := s.lessons[lessonID]; ok {
		return l.ScheduleID()
	}
	return ""
}

// withRelations 返回附带关联对象的副本，模拟 Preload
func (s *mockStore) withRelations(b *model.LessonBlock) model.LessonBlock {
	cp := *b
	cp.Lesson = s.lessons[b.LessonID]
	if b.TeacherID != nil {
		cp.Teacher = s.teachers[*b.TeacherID]
	}
	if b.ClassroomID != nil {
		cp.Classroom = s.classrooms[*b.ClassroomID]
	}
	return cp
}

func (s *mockStore) sortedBlocks(match func(b *model.LessonBlock) bool) []*model.LessonBlock {
	var out []*model.LessonBlock
	for _, b := range s.blocks {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Date(), out[j].Date()
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if out[i].LessonStart != out[j].LessonStart {
			return out[i].LessonStart < out[j].LessonStart
		}
		return out[i].LessonBlockID < out[j].LessonBlockID
	})
	return out
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct{ s *mockStore }

func (m *mockScheduleRepo) GetByID(_ context.Context, id string, scope repository.AccessScope) (*model.Schedule, error) {
	if sch, ok := m.s.schedules[id]; ok && m.s.visible(id, scope) {
		return sch, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ScheduleSettingsRepository ──

type mockScheduleSettingsRepo struct{ s *mockStore }

func (m *mockScheduleSettingsRepo) GetByScheduleID(_ context.Context, scheduleID string) (*model.ScheduleSettings, error) {
	m.s.settingsHit++
	if st, ok := m.s.settings[scheduleID]; ok {
		return st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock LessonRepository ──

type mockLessonRepo struct{ s *mockStore }

func (m *mockLessonRepo) GetByID(_ context.Context, id string, scope repository.AccessScope) (*model.Lesson, error) {
	if l, ok := m.s.lessons[id]; ok && m.s.visible(l.ScheduleID(), scope) {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) LockByID(_ context.Context, id string) error {
	if _, ok := m.s.lessons[id]; ok {
		if m.s.onLock != nil {
			m.s.onLock(id)
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) UpdateCurrentHours(_ context.Context, id string, hours int) error {
	if l, ok := m.s.lessons[id]; ok {
		l.CurrentHours = hours
	}
	return nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct{ s *mockStore }

func (m *mockTeacherRepo) GetByID(_ context.Context, id string, scope repository.AccessScope) (*model.Teacher, error) {
	if t, ok := m.s.teachers[id]; ok && m.s.visible(t.ScheduleID, scope) {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ClassroomRepository ──

type mockClassroomRepo struct{ s *mockStore }

func (m *mockClassroomRepo) GetByID(_ context.Context, id string, scope repository.AccessScope) (*model.Classroom, error) {
	if c, ok := m.s.classrooms[id]; ok && m.s.visible(c.ScheduleID, scope) {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock LessonBlockRepository ──

type mockLessonBlockRepo struct{ s *mockStore }

func (m *mockLessonBlockRepo) inScope(b *model.LessonBlock, scope repository.AccessScope) bool {
	return m.s.visible(m.s.lessonSchedule(b.LessonID), scope)
}

func (m *mockLessonBlockRepo) BatchCreate(_ context.Context, blocks []model.LessonBlock) error {
	if m.s.insertErr != nil {
		return m.s.insertErr
	}
	for i := range blocks {
		b := blocks[i]
		m.s.blocks[b.LessonBlockID] = &b
	}
	return nil
}

func (m *mockLessonBlockRepo) GetByID(_ context.Context, id string, scope repository.AccessScope) (*model.LessonBlock, error) {
	if b, ok := m.s.blocks[id]; ok && m.inScope(b, scope) {
		cp := m.s.withRelations(b)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonBlockRepo) FindFirstByKey(_ context.Context, key string, scope repository.AccessScope) (*model.LessonBlock, error) {
	rows := m.s.sortedBlocks(func(b *model.LessonBlock) bool {
		return (b.LessonBlockID == key || b.ClusterID == key) && m.inScope(b, scope)
	})
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rows[0]
	return &cp, nil
}

func (m *mockLessonBlockRepo) List(_ context.Context, filter repository.LessonBlockFilter, scope repository.AccessScope, offset, limit int) ([]model.LessonBlock, int64, error) {
	rows := m.s.sortedBlocks(func(b *model.LessonBlock) bool {
		if !m.inScope(b, scope) {
			return false
		}
		switch filter.Type {
		case repository.FilterByLesson:
			if b.LessonID != filter.ID {
				return false
			}
		case repository.FilterByTeacher:
			if b.TeacherID == nil || *b.TeacherID != filter.ID {
				return false
			}
		case repository.FilterByClassroom:
			if b.ClassroomID == nil || *b.ClassroomID != filter.ID {
				return false
			}
		case repository.FilterByCluster:
			if b.ClusterID != filter.ID {
				return false
			}
		case repository.FilterBySchedule:
			if m.s.lessonSchedule(b.LessonID) != filter.ID {
				return false
			}
		}
		d := b.Date()
		if !filter.FromDate.IsZero() && d.Before(filter.FromDate) {
			return false
		}
		if !filter.ToDate.IsZero() && d.After(filter.ToDate) {
			return false
		}
		return true
	})

	total := int64(len(rows))
	if offset >= len(rows) {
		return []model.LessonBlock{}, total, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	result := make([]model.LessonBlock, 0, end-offset)
	for _, b := range rows[offset:end] {
		result = append(result, m.s.withRelations(b))
	}
	return result, total, nil
}

func (m *mockLessonBlockRepo) UpdateByIDs(_ context.Context, ids []string, patch repository.LessonBlockPatch) (int64, error) {
	var n int64
	for _, id := range ids {
		b, ok := m.s.blocks[id]
		if !ok {
			continue
		}
		b.LessonDate = datatypes.Date(b.Date().AddDate(0, 0, patch.DayShift))
		b.LessonStart = patch.LessonStart
		b.LessonEnd = patch.LessonEnd
		b.TeacherID = patch.TeacherID
		b.ClassroomID = patch.ClassroomID
		n++
	}
	return n, nil
}

func (m *mockLessonBlockRepo) DeleteByKey(_ context.Context, key string, scope repository.AccessScope) (int64, error) {
	var n int64
	for id, b := range m.s.blocks {
		if (b.LessonBlockID == key || b.ClusterID == key) && m.inScope(b, scope) {
			delete(m.s.blocks, id)
			n++
		}
	}
	return n, nil
}

func (m *mockLessonBlockRepo) DeleteByCluster(_ context.Context, clusterID string, scope repository.AccessScope) (int64, error) {
	var n int64
	for id, b := range m.s.blocks {
		if b.ClusterID == clusterID && m.inScope(b, scope) {
			delete(m.s.blocks, id)
			n++
		}
	}
	return n, nil
}

func (m *mockLessonBlockRepo) SumHoursByLesson(_ context.Context, lessonID string) (int, error) {
	sum := 0
	for _, b := range m.s.blocks {
		if b.LessonID == lessonID {
			sum += b.Hours()
		}
	}
	return sum, nil
}

// ── Mock SettingsCache ──

type mockSettingsCache struct {
	data   map[string][]byte
	getErr error
}

func newMockSettingsCache() *mockSettingsCache {
	return &mockSettingsCache{data: make(map[string][]byte)}
}

func (c *mockSettingsCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *mockSettingsCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

// ── 种子数据 ──

const (
	testOwnerID     = "user-owner"
	testScheduleID  = "sch-1"
	testOtherSchID  = "sch-2"
	testLessonID    = "lesson-1"
	testTeacherID   = "teacher-1"
	testForeignTchr = "teacher-foreign"
	testClassroomID = "room-1"
)

func mustDate(s string) time.Time {
	d, err := parseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// seedSchedule 种子数据：课表 sch-1（5 节 / 周一至周五 / 学年 yearStart~yearEnd）+ 课程 + 教师 + 教室，
// 以及属于另一课表 sch-2 的教师
func seedSchedule(s *mockStore, yearStart, yearEnd string) {
	s.schedules[testScheduleID] = &model.Schedule{ScheduleID: testScheduleID, Name: "2024 学年", UserID: testOwnerID}
	s.schedules[testOtherSchID] = &model.Schedule{ScheduleID: testOtherSchID, Name: "其他课表", UserID: "user-other"}

	periods := make([]model.LessonPeriod, 0, 5)
	for _, start := range []string{"08:00", "08:55", "09:50", "10:45", "11:40"} {
		periods = append(periods, model.LessonPeriod{Start: start})
	}
	s.settings[testScheduleID] = &model.ScheduleSettings{
		ScheduleID:      testScheduleID,
		SchoolYearStart: mustDate(yearStart),
		SchoolYearEnd:   mustDate(yearEnd),
		SchoolDays:      "1111100",
		LessonPeriods:   periods,
	}

	s.lessons[testLessonID] = &model.Lesson{
		LessonID:      testLessonID,
		Name:          "数学",
		AmountOfHours: 60,
		LessonTypeID:  "type-1",
		LessonType:    &model.LessonType{LessonTypeID: "type-1", Name: "讲授", ScheduleID: testScheduleID},
	}
	s.teachers[testTeacherID] = &model.Teacher{TeacherID: testTeacherID, Name: "Jan", Surname: "Kowalski", ScheduleID: testScheduleID}
	s.teachers[testForeignTchr] = &model.Teacher{TeacherID: testForeignTchr, Name: "Anna", Surname: "Nowak", ScheduleID: testOtherSchID}
	s.classrooms[testClassroomID] = &model.Classroom{ClassroomID: testClassroomID, Name: "A101", Capacity: 30, ScheduleID: testScheduleID}
}

// seedBlock 直接写入一行课时块
func seedBlock(s *mockStore, id, clusterID, date string, start, end int) {
	s.blocks[id] = &model.LessonBlock{
		LessonBlockID: id,
		LessonDate:    datatypes.Date(mustDate(date)),
		LessonStart:   start,
		LessonEnd:     end,
		LessonID:      testLessonID,
		ClusterID:     clusterID,
	}
}

// shiftCluster 将课组内所有行的日期平移 days 天
func shiftCluster(s *mockStore, clusterID string, days int) {
	for _, b := range s.blocks {
		if b.ClusterID == clusterID {
			b.LessonDate = datatypes.Date(b.Date().AddDate(0, 0, days))
		}
	}
}
