// Package tarot 塔罗牌接口
package tarot

import (
	"errors"
	"strconv"

	"tarot-agent/app/models/reading"
	"tarot-agent/app/requests"
	"tarot-agent/app/services"
	"tarot-agent/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// ReadingController 占卜记录接口
type ReadingController struct {
	service *services.ReadingService
}

// NewReadingController 创建控制器
func NewReadingController(service *services.ReadingService) *ReadingController {
	return &ReadingController{service: service}
}

// Store 发起一次占卜
func (rc *ReadingController) Store(c *gin.Context) {
	// 1. 请求验证
	request, err := requests.BindReading(c)
	if err != nil {
		abortRequestError(c, err)
		return
	}

	// 2. 抽牌、保存、解读
	result, err := rc.service.Perform(c.Request.Context(), request.Kind(), request.Question, request.QuerentName)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	response.Created(c, result, "占卜完成")
}

// MaxPageSize 每页最多条数
const MaxPageSize = 100

// Index 分页获取占卜记录，按占卜时间倒序
// page_size 缺省时兼容旧的 limit 参数
func (rc *ReadingController) Index(c *gin.Context) {
	page := cast.ToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize := cast.ToInt(c.DefaultQuery("page_size", c.DefaultQuery("limit", "0")))
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	readings, total, err := rc.service.ReadingsPage(c.Request.Context(), page, pageSize)
	if err != nil {
		response.ServerError(c, err, "获取记录失败")
		return
	}

	response.Data(c, gin.H{
		"readings": readings,
		"count":    len(readings),
		"total":    total,
		"page":     page,
	})
}

// Show 单条记录及其牌
func (rc *ReadingController) Show(c *gin.Context) {
	rd, ok := rc.loadReading(c)
	if !ok {
		return
	}

	cards, err := rc.service.ReadingCards(c.Request.Context(), rd)
	if err != nil {
		response.ServerError(c, err, "获取牌面失败")
		return
	}

	response.Data(c, services.ReadingResult{Reading: rd, Cards: cards})
}

// StoreFollowup 追问
func (rc *ReadingController) StoreFollowup(c *gin.Context) {
	rd, ok := rc.loadReading(c)
	if !ok {
		return
	}

	request, err := requests.BindFollowup(c)
	if err != nil {
		abortRequestError(c, err)
		return
	}

	answer, ok, err := rc.service.AskFollowup(c.Request.Context(), rd.ID, request.Question)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	data := gin.H{
		"reading_id": rd.ID,
		"question":   request.Question,
		"available":  ok,
	}
	if ok {
		data["answer"] = answer
	} else {
		data["answer"] = nil
	}
	response.Data(c, data)
}

// Followups 追问记录
func (rc *ReadingController) Followups(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	exchanges, err := rc.service.Followups(c.Request.Context(), id)
	if err != nil {
		response.ServerError(c, err, "获取追问记录失败")
		return
	}

	response.Data(c, gin.H{
		"reading_id": id,
		"followups":  exchanges,
	})
}

// Reinterpret 重新生成解读
func (rc *ReadingController) Reinterpret(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := rc.service.Reinterpret(c.Request.Context(), id)
	if err != nil {
		abortServiceError(c, err)
		return
	}
	if result == nil {
		response.Abort404(c, "占卜记录不存在")
		return
	}

	response.Data(c, result)
}

func (rc *ReadingController) loadReading(c *gin.Context) (*reading.Reading, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	rd, err := rc.service.GetReading(c.Request.Context(), id)
	if err != nil {
		response.ServerError(c, err, "获取记录失败")
		return nil, false
	}
	if rd == nil {
		response.Abort404(c, "占卜记录不存在")
		return nil, false
	}
	return rd, true
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Abort400(c, "无效的 ID")
		return 0, false
	}
	return id, true
}

func abortRequestError(c *gin.Context, err error) {
	var verr requests.ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(c, verr.Errors)
		return
	}
	response.BadRequest(c, err, "请求参数验证失败")
}

func abortServiceError(c *gin.Context, err error) {
	if errors.Is(err, reading.ErrValidation) {
		response.Unprocessable(c, err, "占卜请求无效")
		return
	}
	response.ServerError(c, err)
}
