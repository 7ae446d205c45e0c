package requests

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"

	"tarot-agent/app/models/card"
	"tarot-agent/app/models/reading"
)

// ReadingRequest 发起占卜
type ReadingRequest struct {
	Question    string `json:"question"`
	SpreadKind  string `json:"spread_kind"`
	QuerentName string `json:"querent_name"`
}

// FollowupRequest 追问
type FollowupRequest struct {
	Question string `json:"question"`
}

// InteractiveQuestion 交互式输入的问题
type InteractiveQuestion struct {
	Question string `json:"question"`
}

// CardQuery 牌库筛选参数
type CardQuery struct {
	Arcana  string `form:"arcana" json:"arcana"`
	Suit    string `form:"suit" json:"suit"`
	Keyword string `form:"keyword" json:"keyword"`
	Element string `form:"element" json:"element"`
}

// MinInteractiveQuestionLength 交互模式下问题的最少字符数
const MinInteractiveQuestionLength = 6

var readingRules = govalidator.MapData{
	"question":     []string{"required", "min:1", "max:1000"},
	"spread_kind":  []string{"required", "in:" + drawableKinds()},
	"querent_name": []string{"max:100"},
}

var readingMessages = govalidator.MapData{
	"question": []string{
		"required:问题不能为空",
		"min:问题长度不能小于 1 个字符",
		"max:问题长度不能超过 1000 个字符",
	},
	"spread_kind": []string{
		"required:牌阵类型不能为空",
		"in:牌阵类型必须是 " + drawableKinds() + " 之一",
	},
	"querent_name": []string{
		"max:名字长度不能超过 100 个字符",
	},
}

func drawableKinds() string {
	kinds := make([]string, len(reading.DrawableKinds))
	for i, kind := range reading.DrawableKinds {
		kinds[i] = string(kind)
	}
	return strings.Join(kinds, ",")
}

// Kind 牌阵类型
func (r ReadingRequest) Kind() reading.SpreadKind {
	return reading.SpreadKind(r.SpreadKind)
}

// ValidateReading 验证占卜请求
func ValidateReading(req *ReadingRequest) error {
	req.Question = strings.TrimSpace(req.Question)
	req.QuerentName = strings.TrimSpace(req.QuerentName)
	req.SpreadKind = strings.ToLower(strings.TrimSpace(req.SpreadKind))
	return ValidateStruct(req, readingRules, readingMessages)
}

// BindReading 解析并验证 JSON 请求体
func BindReading(c *gin.Context) (ReadingRequest, error) {
	var req ReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, ValidateReading(&req)
}

// BindFollowup 解析并验证追问请求
func BindFollowup(c *gin.Context) (FollowupRequest, error) {
	req, err := ValidateRequest[FollowupRequest](c, govalidator.MapData{
		"question": []string{"required", "min:1", "max:1000"},
	}, govalidator.MapData{
		"question": []string{
			"required:追问内容不能为空",
			"min:追问内容不能为空",
			"max:追问内容不能超过 1000 个字符",
		},
	})
	req.Question = strings.TrimSpace(req.Question)
	return req, err
}

// ValidateInteractiveQuestion 交互模式要求问题多于 5 个字符
func ValidateInteractiveQuestion(question string) error {
	req := InteractiveQuestion{Question: strings.TrimSpace(question)}
	return ValidateStruct(&req, govalidator.MapData{
		"question": []string{"required", "min:6"},
	}, govalidator.MapData{
		"question": []string{
			"required:Please enter a question.",
			"min:Please enter a more detailed question (at least 6 characters).",
		},
	})
}

// ValidateCardQuery 验证筛选参数
func ValidateCardQuery(q *CardQuery) error {
	q.Arcana = strings.ToLower(strings.TrimSpace(q.Arcana))
	q.Suit = strings.ToLower(strings.TrimSpace(q.Suit))
	q.Keyword = strings.TrimSpace(q.Keyword)
	q.Element = strings.TrimSpace(q.Element)

	return ValidateStruct(q, govalidator.MapData{
		"arcana": []string{"in:" + string(card.ArcanaMajor) + "," + string(card.ArcanaMinor)},
		"suit":   []string{"in:" + suitList()},
	}, govalidator.MapData{
		"arcana": []string{"in:arcana 必须是 major 或 minor"},
		"suit":   []string{"in:花色必须是 " + suitList() + " 之一"},
	})
}

// BindCardQuery 解析并验证查询参数
func BindCardQuery(c *gin.Context) (CardQuery, error) {
	var q CardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, err
	}
	return q, ValidateCardQuery(&q)
}

func suitList() string {
	suits := make([]string, len(card.Suits))
	for i, s := range card.Suits {
		suits[i] = string(s)
	}
	return strings.Join(suits, ",")
}
