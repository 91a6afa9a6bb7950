package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	return body
}

func TestOKPage_TotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     float64
	}{
		{total: 0, pageSize: 20, want: 0},
		{total: 20, pageSize: 20, want: 1},
		{total: 41, pageSize: 20, want: 3},
		{total: 5, pageSize: 0, want: 5},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		OKPage(c, []string{}, tt.total, 1, tt.pageSize)

		data := decode(t, w)["data"].(map[string]interface{})
		p := data["pagination"].(map[string]interface{})
		if p["total_pages"] != tt.want {
			t.Errorf("total=%d page_size=%d 期望 total_pages=%v，实际=%v", tt.total, tt.pageSize, tt.want, p["total_pages"])
		}
	}
}

func TestValidationFailed_CarriesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(requestIDKey, "rid-1")

	ValidationFailed(c, 20001, []string{"课程不存在", "教室不存在"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	body := decode(t, w)
	if body["request_id"] != "rid-1" {
		t.Errorf("期望 request_id=rid-1，实际=%v", body["request_id"])
	}
	errs, _ := body["errors"].([]interface{})
	if len(errs) != 2 || errs[0] != "课程不存在" {
		t.Errorf("errors 顺序或内容不符: %v", errs)
	}
}

func TestInternalError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	InternalError(c)

	body := decode(t, w)
	if w.Code != http.StatusInternalServerError || body["code"] != float64(CodeInternal) {
		t.Errorf("期望 500/50000，实际=%d/%v", w.Code, body["code"])
	}
	if _, ok := body["request_id"]; ok {
		t.Error("无 request_id 时不应输出该字段")
	}
}
