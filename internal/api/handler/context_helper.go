package handler

import (
	"github.com/gin-gonic/gin"

	"alpimi-planner/backend/internal/repository"
	"alpimi-planner/backend/pkg/response"
)

// RoleAdmin 具有全部课表访问权限的角色
const RoleAdmin = "admin"

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetScope 由 user_id + role 构造数据可见范围，admin 不做所有权过滤。
func MustGetScope(c *gin.Context) (repository.AccessScope, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return repository.AccessScope{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return repository.AccessScope{}, false
	}
	return repository.AccessScope{UserID: userID, Privileged: role == RoleAdmin}, true
}
