package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alpimi-planner/backend/config"
	"alpimi-planner/backend/internal/dto"
	"alpimi-planner/backend/internal/model"
	"alpimi-planner/backend/internal/repository"
	pkgerrors "alpimi-planner/backend/pkg/errors"
	"alpimi-planner/backend/pkg/metrics"
)

// ── 课时块模块业务错误 ──

var (
	ErrLessonBlockNotFound  = errors.New("课时块不存在")
	ErrLessonNotFound       = errors.New("课程不存在")
	ErrFilterTargetNotFound = errors.New("过滤对象不存在")
	ErrInvalidDateRange     = errors.New("from_date 不能晚于 to_date")
)

// enumeratePageSize 内部分页枚举课组 / 导出时每页行数
const enumeratePageSize = 200

// LessonBlockService 课时块业务接口
//
// 设计说明：
//   - 一次创建请求展开出的所有行共享 cluster_id，课组是"整体修改 / 整体删除"的单位
//   - 校验错误一次性收集后以 *pkgerrors.ValidationErrors 返回，任何一条失败都不落库
//   - 每次写操作在同一事务内完成：锁课程行 → 写课时块 → 重算 current_hours → 提交
//   - 不做教师 / 教室占用冲突检测
type LessonBlockService interface {
	// Create 校验并展开课时块，返回 cluster_id（多行）或唯一一行的 lesson_block_id
	// 按周重复时行数为 floor(剩余天数/(7*week_interval))，但至少保留请求的首次课；
	// 因此首次课落在学年最后 7*week_interval-1 天内时仍产生 1 行，而非按公式得到 0 行
	Create(ctx context.Context, req *dto.CreateLessonBlockRequest, clusterID string, scope repository.AccessScope) (string, error)
	// Update 修改单行或整个课组，返回传入的 id
	Update(ctx context.Context, id string, req *dto.UpdateLessonBlockRequest, scope repository.AccessScope) (string, error)
	// Delete 删除匹配 id（行 ID 或 cluster_id）的课时块；wholeCluster 为 true 时将行 ID 扩展为其所在课组
	// id 不存在时为空操作
	Delete(ctx context.Context, id string, wholeCluster bool, scope repository.AccessScope) error
	GetByID(ctx context.Context, id string, scope repository.AccessScope) (*dto.LessonBlockResponse, error)
	List(ctx context.Context, req *dto.LessonBlockListRequest, scope repository.AccessScope) ([]dto.LessonBlockResponse, int64, error)
}

type lessonBlockService struct {
	cfg      *config.Config
	repo     *repository.Repository
	calendar CalendarProvider
	hours    *HourAccumulator
	logger   *zap.Logger
}

// NewLessonBlockService 创建 LessonBlockService 实例
func NewLessonBlockService(
	cfg *config.Config,
	repo *repository.Repository,
	calendar CalendarProvider,
	hours *HourAccumulator,
	logger *zap.Logger,
) LessonBlockService {
	return &lessonBlockService{
		cfg:      cfg,
		repo:     repo,
		calendar: calendar,
		hours:    hours,
		logger:   logger,
	}
}

// ═══════════════════════════════════════════════════════════
// Create: 校验、展开、落库、重算课时
// ═══════════════════════════════════════════════════════════
//
// 校验顺序：课程 → 教师 → 教室 → 节次顺序 → 节次范围 → 学年范围 → 星期掩码 → week_interval
// 课程不存在时无法得到学年日历，依赖日历的检查跳过；其余检查照常收集

func (s *lessonBlockService) Create(ctx context.Context, req *dto.CreateLessonBlockRequest, clusterID string, scope repository.AccessScope) (string, error) {
	if clusterID == "" {
		clusterID = uuid.NewString()
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			rollback(tx)
			panic(r)
		}
	}()
	txRepo := s.repo.WithTx(tx)

	var errs pkgerrors.ValidationErrors

	date, dateErr := parseDate(req.LessonDate)
	if dateErr != nil {
		errs.Add(fmt.Sprintf("上课日期格式无效: %q", req.LessonDate))
	}

	lesson, cal, err := s.lockLesson(ctx, txRepo, req.LessonID, scope, &errs)
	if err != nil {
		rollback(tx)
		return "", err
	}

	scheduleID := ""
	if lesson != nil {
		scheduleID = lesson.ScheduleID()
	}
	if err := s.checkResources(ctx, txRepo, req.TeacherID, req.ClassroomID, scheduleID, lesson != nil, scope, &errs); err != nil {
		rollback(tx)
		return "", err
	}

	s.checkPeriods(&errs, req.LessonStart, req.LessonEnd, cal)

	if cal != nil && dateErr == nil {
		if !cal.Contains(date) {
			errs.Add(outOfYearMessage(date, cal))
		}
		if !cal.AllowsWeekday(date) {
			errs.Add(weekdayDeniedMessage(date))
		}
	}

	if req.WeekInterval != nil && *req.WeekInterval < 1 {
		errs.Add("week_interval 必须大于等于 1")
	}

	if errs.HasAny() {
		rollback(tx)
		metrics.ValidationFailures.WithLabelValues("create").Inc()
		s.logger.Debug("创建课时块校验失败", zap.String("lesson_id", req.LessonID), zap.Strings("errors", errs.Messages))
		return "", &errs
	}

	dates := expandOccurrences(date, cal.SchoolYearEnd, req.WeekInterval)
	blocks := make([]model.LessonBlock, 0, len(dates))
	for _, d := range dates {
		blocks = append(blocks, model.LessonBlock{
			LessonBlockID: uuid.NewString(),
			LessonDate:    datatypes.Date(d),
			LessonStart:   req.LessonStart,
			LessonEnd:     req.LessonEnd,
			LessonID:      lesson.LessonID,
			TeacherID:     req.TeacherID,
			ClassroomID:   req.ClassroomID,
			ClusterID:     clusterID,
		})
	}

	if err := txRepo.LessonBlock.BatchCreate(ctx, blocks); err != nil {
		rollback(tx)
		if repository.IsForeignKeyViolation(err) {
			return "", ErrLessonNotFound
		}
		s.logger.Error("写入课时块失败", zap.String("lesson_id", lesson.LessonID), zap.String("cluster_id", clusterID), zap.Error(err))
		return "", err
	}

	if _, err := s.hours.Recalculate(ctx, txRepo, lesson.LessonID); err != nil {
		rollback(tx)
		return "", err
	}

	if err := commit(tx); err != nil {
		s.logger.Error("提交事务失败", zap.Error(err))
		return "", err
	}

	metrics.LessonBlocksCreated.Add(float64(len(blocks)))
	s.logger.Info("课时块已创建",
		zap.String("lesson_id", lesson.LessonID),
		zap.String("cluster_id", clusterID),
		zap.Int("rows", len(blocks)),
	)

	if len(blocks) > 1 {
		return clusterID, nil
	}
	return blocks[0].LessonBlockID, nil
}

// expandOccurrences 按 7*interval 天步长展开日期
// interval 为 nil 时只产生 first；给定时数量为 floor((yearEnd-first)/(7*interval))，至少 1 个:
// first 落在学年最后 7*interval-1 天内时公式得 0，仍保留 first 本身
func expandOccurrences(first, yearEnd time.Time, interval *int) []time.Time {
	if interval == nil {
		return []time.Time{first}
	}

	step := 7 * *interval
	count := daysBetween(first, yearEnd) / step
	if count < 1 {
		count = 1
	}

	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, first.AddDate(0, 0, i*step))
	}
	return dates
}

// ═══════════════════════════════════════════════════════════
// Update: 单行 / 课组修改
// ═══════════════════════════════════════════════════════════
//
// 缺省字段取锚点行当前值；week_day 变化时所有行统一平移 new-old 天。
// 平移后锚点行与最后一行都需仍在学年内，中间行由周间隔保证。

func (s *lessonBlockService) Update(ctx context.Context, id string, req *dto.UpdateLessonBlockRequest, scope repository.AccessScope) (string, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			rollback(tx)
			panic(r)
		}
	}()
	txRepo := s.repo.WithTx(tx)

	// 先加课程锁再读取目标行：平移量与校验都必须基于锁内读到的最新日期
	lessonID, err := s.lessonOfKey(ctx, txRepo, id, req.UpdateCluster, scope)
	if err != nil {
		rollback(tx)
		return "", err
	}

	if err := txRepo.Lesson.LockByID(ctx, lessonID); err != nil {
		rollback(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrLessonBlockNotFound
		}
		s.logger.Error("锁定课程失败", zap.String("lesson_id", lessonID), zap.Error(err))
		return "", err
	}

	targets, err := s.resolveTargets(ctx, txRepo, id, req.UpdateCluster, scope)
	if err != nil {
		rollback(tx)
		return "", err
	}
	anchor := targets[0]
	last := targets[len(targets)-1]

	lesson, err := txRepo.Lesson.GetByID(ctx, anchor.LessonID, scope)
	if err != nil {
		rollback(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrLessonBlockNotFound
		}
		s.logger.Error("查询课程失败", zap.String("lesson_id", anchor.LessonID), zap.Error(err))
		return "", err
	}

	cal, err := s.calendar.ForSchedule(ctx, lesson.ScheduleID())
	if err != nil {
		rollback(tx)
		return "", err
	}

	// 缺省值取自锚点行
	start := anchor.LessonStart
	if req.LessonStart != nil {
		start = *req.LessonStart
	}
	end := anchor.LessonEnd
	if req.LessonEnd != nil {
		end = *req.LessonEnd
	}
	teacherID := anchor.TeacherID
	if req.TeacherID != nil {
		teacherID = req.TeacherID
	}
	classroomID := anchor.ClassroomID
	if req.ClassroomID != nil {
		classroomID = req.ClassroomID
	}
	oldWeekday := WeekdayIndex(anchor.Date())
	newWeekday := oldWeekday
	if req.WeekDay != nil {
		newWeekday = *req.WeekDay
	}

	var errs pkgerrors.ValidationErrors

	if err := s.checkResources(ctx, txRepo, req.TeacherID, req.ClassroomID, lesson.ScheduleID(), true, scope, &errs); err != nil {
		rollback(tx)
		return "", err
	}

	s.checkPeriods(&errs, start, end, cal)

	shift := 0
	if newWeekday < 0 || newWeekday > 6 {
		errs.Add("week_day 必须在 0-6 之间")
	} else {
		shift = newWeekday - oldWeekday
		newAnchor := anchor.Date().AddDate(0, 0, shift)
		if !cal.AllowsWeekday(newAnchor) {
			errs.Add(weekdayDeniedMessage(newAnchor))
		}
		if !cal.Contains(newAnchor) {
			errs.Add(outOfYearMessage(newAnchor, cal))
		}
		if last.LessonBlockID != anchor.LessonBlockID {
			newLast := last.Date().AddDate(0, 0, shift)
			if !cal.Contains(newLast) {
				errs.Add(outOfYearMessage(newLast, cal))
			}
		}
	}

	if errs.HasAny() {
		rollback(tx)
		metrics.ValidationFailures.WithLabelValues("update").Inc()
		s.logger.Debug("更新课时块校验失败", zap.String("id", id), zap.Strings("errors", errs.Messages))
		return "", &errs
	}

	ids := make([]string, 0, len(targets))
	for _, b := range targets {
		ids = append(ids, b.LessonBlockID)
	}

	affected, err := txRepo.LessonBlock.UpdateByIDs(ctx, ids, repository.LessonBlockPatch{
		DayShift:    shift,
		LessonStart: start,
		LessonEnd:   end,
		TeacherID:   teacherID,
		ClassroomID: classroomID,
	})
	if err != nil {
		rollback(tx)
		s.logger.Error("更新课时块失败", zap.String("id", id), zap.Error(err))
		return "", err
	}

	if _, err := s.hours.Recalculate(ctx, txRepo, anchor.LessonID); err != nil {
		rollback(tx)
		return "", err
	}

	if err := commit(tx); err != nil {
		s.logger.Error("提交事务失败", zap.Error(err))
		return "", err
	}

	metrics.LessonBlocksUpdated.Add(float64(affected))
	s.logger.Info("课时块已更新",
		zap.String("id", id),
		zap.Bool("update_cluster", req.UpdateCluster),
		zap.Int64("rows", affected),
		zap.Int("day_shift", shift),
	)

	return id, nil
}

// lessonOfKey 加锁前定位 id 所属课程；课时块的 lesson_id 不会被更新修改，锁外读取即可
func (s *lessonBlockService) lessonOfKey(ctx context.Context, repo *repository.Repository, id string, cluster bool, scope repository.AccessScope) (string, error) {
	var (
		block *model.LessonBlock
		err   error
	)
	if cluster {
		block, err = repo.LessonBlock.FindFirstByKey(ctx, id, scope)
	} else {
		block, err = repo.LessonBlock.GetByID(ctx, id, scope)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrLessonBlockNotFound
		}
		s.logger.Error("查询课时块失败", zap.String("id", id), zap.Error(err))
		return "", err
	}
	return block.LessonID, nil
}

// resolveTargets 单行模式返回该行；课组模式将 id 视为行 ID 或 cluster_id，按日期升序返回整个课组
func (s *lessonBlockService) resolveTargets(ctx context.Context, repo *repository.Repository, id string, cluster bool, scope repository.AccessScope) ([]model.LessonBlock, error) {
	if !cluster {
		block, err := repo.LessonBlock.GetByID(ctx, id, scope)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLessonBlockNotFound
			}
			s.logger.Error("查询课时块失败", zap.String("lesson_block_id", id), zap.Error(err))
			return nil, err
		}
		return []model.LessonBlock{*block}, nil
	}

	first, err := repo.LessonBlock.FindFirstByKey(ctx, id, scope)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonBlockNotFound
		}
		s.logger.Error("查询课时块失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	blocks, err := listAllBlocks(ctx, repo, repository.LessonBlockFilter{
		Type: repository.FilterByCluster,
		ID:   first.ClusterID,
	}, scope)
	if err != nil {
		s.logger.Error("枚举课组失败", zap.String("cluster_id", first.ClusterID), zap.Error(err))
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, ErrLessonBlockNotFound
	}
	return blocks, nil
}

// ────────────────────── Delete ──────────────────────

func (s *lessonBlockService) Delete(ctx context.Context, id string, wholeCluster bool, scope repository.AccessScope) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			rollback(tx)
			panic(r)
		}
	}()
	txRepo := s.repo.WithTx(tx)

	// 先解析受影响行所属课程，删除后据此重算
	target, err := txRepo.LessonBlock.FindFirstByKey(ctx, id, scope)
	if err != nil {
		rollback(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询课时块失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := txRepo.Lesson.LockByID(ctx, target.LessonID); err != nil {
		rollback(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("锁定课程失败", zap.String("lesson_id", target.LessonID), zap.Error(err))
		return err
	}

	// 锁内重读，等待期间已被并发删除时为空操作
	target, err = txRepo.LessonBlock.FindFirstByKey(ctx, id, scope)
	if err != nil {
		rollback(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询课时块失败", zap.String("id", id), zap.Error(err))
		return err
	}

	var deleted int64
	if wholeCluster {
		deleted, err = txRepo.LessonBlock.DeleteByCluster(ctx, target.ClusterID, scope)
	} else {
		deleted, err = txRepo.LessonBlock.DeleteByKey(ctx, id, scope)
	}
	if err != nil {
		rollback(tx)
		s.logger.Error("删除课时块失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if _, err := s.hours.Recalculate(ctx, txRepo, target.LessonID); err != nil {
		rollback(tx)
		return err
	}

	if err := commit(tx); err != nil {
		s.logger.Error("提交事务失败", zap.Error(err))
		return err
	}

	metrics.LessonBlocksDeleted.Add(float64(deleted))
	s.logger.Info("课时块已删除",
		zap.String("id", id),
		zap.String("cluster_id", target.ClusterID),
		zap.Int64("rows", deleted),
	)
	return nil
}

// ────────────────────── GetByID ──────────────────────

func (s *lessonBlockService) GetByID(ctx context.Context, id string, scope repository.AccessScope) (*dto.LessonBlockResponse, error) {
	block, err := s.repo.LessonBlock.GetByID(ctx, id, scope)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonBlockNotFound
		}
		s.logger.Error("查询课时块失败", zap.String("lesson_block_id", id), zap.Error(err))
		return nil, err
	}
	resp := toLessonBlockResponse(block)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *lessonBlockService) List(ctx context.Context, req *dto.LessonBlockListRequest, scope repository.AccessScope) ([]dto.LessonBlockResponse, int64, error) {
	filter := repository.LessonBlockFilter{Type: req.FilterType, ID: req.FilterID}

	var err error
	if req.FromDate != "" {
		if filter.FromDate, err = parseDate(req.FromDate); err != nil {
			return nil, 0, ErrInvalidDateRange
		}
	}
	if req.ToDate != "" {
		if filter.ToDate, err = parseDate(req.ToDate); err != nil {
			return nil, 0, ErrInvalidDateRange
		}
	}

	// 缺省端点取过滤对象所在课表的学年范围
	if req.FromDate == "" || req.ToDate == "" {
		scheduleID, err := s.scheduleOfFilter(ctx, req.FilterType, req.FilterID, scope)
		if err != nil {
			return nil, 0, err
		}
		if scheduleID == "" {
			return []dto.LessonBlockResponse{}, 0, nil
		}
		cal, err := s.calendar.ForSchedule(ctx, scheduleID)
		if err != nil {
			return nil, 0, err
		}
		if req.FromDate == "" {
			filter.FromDate = cal.SchoolYearStart
		}
		if req.ToDate == "" {
			filter.ToDate = cal.SchoolYearEnd
		}
	}

	if filter.FromDate.After(filter.ToDate) {
		return nil, 0, ErrInvalidDateRange
	}

	page := req.GetPage()
	pageSize := req.GetPageSize(s.cfg.Pagination.DefaultPageSize, s.cfg.Pagination.MaxPageSize)

	blocks, total, err := s.repo.LessonBlock.List(ctx, filter, scope, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询课时块列表失败",
			zap.String("filter_type", req.FilterType),
			zap.String("filter_id", req.FilterID),
			zap.Error(err),
		)
		return nil, 0, err
	}

	result := make([]dto.LessonBlockResponse, 0, len(blocks))
	for i := range blocks {
		result = append(result, toLessonBlockResponse(&blocks[i]))
	}
	return result, total, nil
}

// scheduleOfFilter 解析过滤对象所属课表；课组无任何行时返回空串
func (s *lessonBlockService) scheduleOfFilter(ctx context.Context, filterType, filterID string, scope repository.AccessScope) (string, error) {
	notFound := func(err error) (string, error) {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrFilterTargetNotFound
		}
		s.logger.Error("查询过滤对象失败", zap.String("filter_type", filterType), zap.String("filter_id", filterID), zap.Error(err))
		return "", err
	}

	switch filterType {
	case repository.FilterByLesson:
		lesson, err := s.repo.Lesson.GetByID(ctx, filterID, scope)
		if err != nil {
			return notFound(err)
		}
		return lesson.ScheduleID(), nil
	case repository.FilterByTeacher:
		teacher, err := s.repo.Teacher.GetByID(ctx, filterID, scope)
		if err != nil {
			return notFound(err)
		}
		return teacher.ScheduleID, nil
	case repository.FilterByClassroom:
		classroom, err := s.repo.Classroom.GetByID(ctx, filterID, scope)
		if err != nil {
			return notFound(err)
		}
		return classroom.ScheduleID, nil
	case repository.FilterByCluster:
		first, err := s.repo.LessonBlock.FindFirstByKey(ctx, filterID, scope)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", nil
			}
			return notFound(err)
		}
		lesson, err := s.repo.Lesson.GetByID(ctx, first.LessonID, scope)
		if err != nil {
			return notFound(err)
		}
		return lesson.ScheduleID(), nil
	case repository.FilterBySchedule:
		schedule, err := s.repo.Schedule.GetByID(ctx, filterID, scope)
		if err != nil {
			return notFound(err)
		}
		return schedule.ScheduleID, nil
	default:
		return "", ErrFilterTargetNotFound
	}
}

// ── 校验辅助 ──

// lockLesson 查询课程并加行锁，同时解析其学年日历
// 课程不存在时记入 errs 并返回 nil；学年设置不存在为硬失败
func (s *lessonBlockService) lockLesson(ctx context.Context, repo *repository.Repository, lessonID string, scope repository.AccessScope, errs *pkgerrors.ValidationErrors) (*model.Lesson, *Calendar, error) {
	lesson, err := repo.Lesson.GetByID(ctx, lessonID, scope)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("课程不存在")
			return nil, nil, nil
		}
		s.logger.Error("查询课程失败", zap.String("lesson_id", lessonID), zap.Error(err))
		return nil, nil, err
	}

	if err := repo.Lesson.LockByID(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("课程不存在")
			return nil, nil, nil
		}
		s.logger.Error("锁定课程失败", zap.String("lesson_id", lessonID), zap.Error(err))
		return nil, nil, err
	}

	cal, err := s.calendar.ForSchedule(ctx, lesson.ScheduleID())
	if err != nil {
		return nil, nil, err
	}
	return lesson, cal, nil
}

// checkResources 校验教师 / 教室存在且与课程同属一个课表
// 对象本身不存在时跳过课表比对；lessonKnown 为 false 时同样跳过
func (s *lessonBlockService) checkResources(
	ctx context.Context,
	repo *repository.Repository,
	teacherID, classroomID *string,
	scheduleID string,
	lessonKnown bool,
	scope repository.AccessScope,
	errs *pkgerrors.ValidationErrors,
) error {
	if teacherID != nil {
		teacher, err := repo.Teacher.GetByID(ctx, *teacherID, scope)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			errs.Add("教师不存在")
		case err != nil:
			s.logger.Error("查询教师失败", zap.String("teacher_id", *teacherID), zap.Error(err))
			return err
		case lessonKnown && teacher.ScheduleID != scheduleID:
			errs.Add("教师不属于该课程所在的课表")
		}
	}

	if classroomID != nil {
		classroom, err := repo.Classroom.GetByID(ctx, *classroomID, scope)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			errs.Add("教室不存在")
		case err != nil:
			s.logger.Error("查询教室失败", zap.String("classroom_id", *classroomID), zap.Error(err))
			return err
		case lessonKnown && classroom.ScheduleID != scheduleID:
			errs.Add("教室不属于该课程所在的课表")
		}
	}

	return nil
}

// checkPeriods 节次顺序与范围校验；cal 为 nil 时只校验顺序
func (s *lessonBlockService) checkPeriods(errs *pkgerrors.ValidationErrors, start, end int, cal *Calendar) {
	if s.cfg.Feature.LegacyPeriodOrderCheck {
		if start < end {
			errs.Add("节次顺序无效：lesson_start 不能小于 lesson_end")
		}
	} else if start > end {
		errs.Add("节次顺序无效：lesson_start 不能大于 lesson_end")
	}

	if cal == nil {
		return
	}
	if start < 1 || start > cal.PeriodCount {
		errs.Add(fmt.Sprintf("lesson_start 必须在 1-%d 之间", cal.PeriodCount))
	}
	if end < 1 || end > cal.PeriodCount {
		errs.Add(fmt.Sprintf("lesson_end 必须在 1-%d 之间", cal.PeriodCount))
	}
}

func outOfYearMessage(date time.Time, cal *Calendar) string {
	return fmt.Sprintf("上课日期 %s 不在学年 %s ~ %s 范围内",
		date.Format(dateLayout), cal.SchoolYearStart.Format(dateLayout), cal.SchoolYearEnd.Format(dateLayout))
}

func weekdayDeniedMessage(date time.Time) string {
	return fmt.Sprintf("上课日期 %s 为%s，该课表不允许在此星期上课", date.Format(dateLayout), WeekdayName(WeekdayIndex(date)))
}

// ── 查询辅助 ──

// listAllBlocks 分页枚举满足过滤条件的全部课时块
func listAllBlocks(ctx context.Context, repo *repository.Repository, filter repository.LessonBlockFilter, scope repository.AccessScope) ([]model.LessonBlock, error) {
	var all []model.LessonBlock
	for offset := 0; ; offset += enumeratePageSize {
		page, total, err := repo.LessonBlock.List(ctx, filter, scope, offset, enumeratePageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < enumeratePageSize || int64(len(all)) >= total {
			return all, nil
		}
	}
}

func toLessonBlockResponse(b *model.LessonBlock) dto.LessonBlockResponse {
	resp := dto.LessonBlockResponse{
		ID:          b.LessonBlockID,
		LessonDate:  b.Date().Format(dateLayout),
		WeekDay:     WeekdayIndex(b.Date()),
		LessonStart: b.LessonStart,
		LessonEnd:   b.LessonEnd,
		Hours:       b.Hours(),
		LessonID:    b.LessonID,
		TeacherID:   b.TeacherID,
		ClassroomID: b.ClassroomID,
		ClusterID:   b.ClusterID,
	}
	if b.Lesson != nil {
		resp.Lesson = &dto.LessonBrief{
			ID:            b.Lesson.LessonID,
			Name:          b.Lesson.Name,
			AmountOfHours: b.Lesson.AmountOfHours,
			CurrentHours:  b.Lesson.CurrentHours,
		}
	}
	if b.Teacher != nil {
		resp.Teacher = &dto.TeacherBrief{
			ID:      b.Teacher.TeacherID,
			Name:    b.Teacher.Name,
			Surname: b.Teacher.Surname,
		}
	}
	if b.Classroom != nil {
		resp.Classroom = &dto.ClassroomBrief{
			ID:   b.Classroom.ClassroomID,
			Name: b.Classroom.Name,
		}
	}
	return resp
}

// ── 事务辅助 ──
// 单元测试中 BeginTx 返回 nil 事务

func rollback(tx *gorm.DB) {
	if tx != nil {
		tx.Rollback()
	}
}

func commit(tx *gorm.DB) error {
	if tx == nil {
		return nil
	}
	return tx.Commit().Error
}
