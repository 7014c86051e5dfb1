package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"StockDeck/pkg/collector"
	"StockDeck/pkg/extractor"
	"StockDeck/pkg/model"
	"StockDeck/pkg/repository"
)

// ImportQuerier 入库与查询服务
type ImportQuerier interface {
	ImportBatch(rows [][]interface{}) (model.ImportResult, error)
	QueryAll() (headers []string, data []map[string]interface{}, err error)
}

// KlineFetcher K线行情获取
type KlineFetcher interface {
	FetchKline(ctx context.Context, code string, typ model.KlineType) ([]model.KlineBar, error)
}

// Handlers API处理程序
type Handlers struct {
	repo  ImportQuerier
	kline KlineFetcher
}

// NewHandlers 创建新的API处理程序
func NewHandlers(repo ImportQuerier, kline KlineFetcher) *Handlers {
	return &Handlers{
		repo:  repo,
		kline: kline,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ImportRequest 入库请求
type ImportRequest struct {
	Data [][]interface{} `json:"data"`
}

// ImportData 批量入库处理程序
// 顶层输入缺失/非数组/为空时返回400；行级失败只汇总进 skipped
func (h *Handlers) ImportData(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "数据格式错误",
		})
		return
	}

	result, err := h.repo.ImportBatch(req.Data)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyBatch) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
		"total":    result.Total,
	})
}

// QueryData 查询全部记录处理程序
func (h *Handlers) QueryData(c *gin.Context) {
	headers, data, err := h.repo.QueryAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"headers": headers,
		"data":    data,
	})
}

// GetKline K线行情处理程序
func (h *Handlers) GetKline(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "股票代码不能为空",
		})
		return
	}

	typ := model.KlineType(c.DefaultQuery("type", "day"))
	if !typ.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "不支持的K线类型: " + string(typ),
		})
		return
	}

	bars, err := h.kline.FetchKline(c.Request.Context(), code, typ)
	if err != nil {
		if errors.Is(err, collector.ErrBadStockCode) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bars,
	})
}

// ExtractRequest HTML表格提取请求
type ExtractRequest struct {
	HTML string `json:"html"`
}

// ExtractTables HTML表格提取处理程序
// 解析失败（无表格/无有效数据）属于输入问题，返回400
func (h *Handlers) ExtractTables(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.HTML == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "请输入HTML代码",
		})
		return
	}

	tables, err := extractor.Extract(req.HTML)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tables":  tables,
	})
}
