package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"alpimi-planner/backend/config"
	"alpimi-planner/backend/internal/dto"
	"alpimi-planner/backend/internal/service"
	pkgerrors "alpimi-planner/backend/pkg/errors"
	"alpimi-planner/backend/pkg/response"
)

// LessonBlockHandler 课时块模块 HTTP 处理器
type LessonBlockHandler struct {
	lessonBlockSvc service.LessonBlockService
	pagination     config.PaginationConfig
}

// NewLessonBlockHandler 创建 LessonBlockHandler
func NewLessonBlockHandler(lessonBlockSvc service.LessonBlockService, pagination config.PaginationConfig) *LessonBlockHandler {
	return &LessonBlockHandler{lessonBlockSvc: lessonBlockSvc, pagination: pagination}
}

// ListLessonBlocks 获取课时块列表
// GET /api/v1/lesson-blocks?filter_type=lesson&filter_id=xxx
func (h *LessonBlockHandler) ListLessonBlocks(c *gin.Context) {
	var req dto.LessonBlockListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	scope, ok := MustGetScope(c)
	if !ok {
		return
	}

	list, total, err := h.lessonBlockSvc.List(c.Request.Context(), &req, scope)
	if err != nil {
		h.handleLessonBlockError(c, err)
		return
	}

	pageSize := req.GetPageSize(h.pagination.DefaultPageSize, h.pagination.MaxPageSize)
	response.OKPage(c, list, total, req.GetPage(), pageSize)
}

// GetLessonBlock 获取课时块详情
// GET /api/v1/lesson-blocks/:id
func (h *LessonBlockHandler) GetLessonBlock(c *gin.Context) {
	id := c.Param("id")
	if !isUUID(id) {
		h.handleLessonBlockError(c, service.ErrLessonBlockNotFound)
		return
	}

	scope, ok := MustGetScope(c)
	if !ok {
		return
	}

	block, err := h.lessonBlockSvc.GetByID(c.Request.Context(), id, scope)
	if err != nil {
		h.handleLessonBlockError(c, err)
		return
	}

	response.OK(c, block)
}

// CreateLessonBlock 创建课时块（可按周重复）
// POST /api/v1/lesson-blocks
func (h *LessonBlockHandler) CreateLessonBlock(c *gin.Context) {
	var req dto.CreateLessonBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	scope, ok := MustGetScope(c)
	if !ok {
		return
	}

	id, err := h.lessonBlockSvc.Create(c.Request.Context(), &req, uuid.NewString(), scope)
	if err != nil {
		h.handleLessonBlockError(c, err)
		return
	}

	response.Created(c, dto.IDResponse{ID: id})
}

// UpdateLessonBlock 更新课时块（单行或整个课组）
// PATCH /api/v1/lesson-blocks/:id
func (h *LessonBlockHandler) UpdateLessonBlock(c *gin.Context) {
	id := c.Param("id")
	if !isUUID(id) {
		h.handleLessonBlockError(c, service.ErrLessonBlockNotFound)
		return
	}

	var req dto.UpdateLessonBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	scope, ok := MustGetScope(c)
	if !ok {
		return
	}

	updatedID, err := h.lessonBlockSvc.Update(c.Request.Context(), id, &req, scope)
	if err != nil {
		h.handleLessonBlockError(c, err)
		return
	}

	response.OK(c, dto.IDResponse{ID: updatedID})
}

// DeleteLessonBlock 删除课时块
// DELETE /api/v1/lesson-blocks/:id?cluster=true
// id 不是合法 UUID 时不可能匹配任何行，按空操作直接返回成功
func (h *LessonBlockHandler) DeleteLessonBlock(c *gin.Context) {
	id := c.Param("id")

	wholeCluster := false
	if raw := c.Query("cluster"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, 10001, "cluster 参数无效")
			return
		}
		wholeCluster = v
	}

	scope, ok := MustGetScope(c)
	if !ok {
		return
	}

	if !isUUID(id) {
		response.OK(c, nil)
		return
	}

	if err := h.lessonBlockSvc.Delete(c.Request.Context(), id, wholeCluster, scope); err != nil {
		h.handleLessonBlockError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleLessonBlockError 统一处理课时块模块业务错误
func (h *LessonBlockHandler) handleLessonBlockError(c *gin.Context, err error) {
	var verr *pkgerrors.ValidationErrors
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, 20001, verr.Messages)
	case errors.Is(err, service.ErrLessonBlockNotFound):
		response.NotFound(c, 20002, "课时块不存在")
	case errors.Is(err, service.ErrLessonNotFound):
		response.NotFound(c, 20003, "课程不存在")
	case errors.Is(err, service.ErrScheduleSettingsNotFound):
		response.NotFound(c, 20004, "课表学年设置不存在")
	case errors.Is(err, service.ErrFilterTargetNotFound):
		response.NotFound(c, 20005, "过滤对象不存在")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 20006, "from_date 不能晚于 to_date")
	default:
		response.InternalError(c)
	}
}

// isUUID 路径 id 必须是标准 36 位 UUID，否则 Postgres 会以 22P02 拒绝比较
func isUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
