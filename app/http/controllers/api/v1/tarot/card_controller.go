package tarot

import (
	"tarot-agent/app/models/card"
	"tarot-agent/app/repositories"
	"tarot-agent/app/requests"
	"tarot-agent/pkg/response"

	"github.com/gin-gonic/gin"
)

// CardController 牌库接口
type CardController struct {
	cards *repositories.CardRepository
}

// NewCardController 创建控制器
func NewCardController(cards *repositories.CardRepository) *CardController {
	return &CardController{cards: cards}
}

// Index 按条件浏览牌库
func (cc *CardController) Index(c *gin.Context) {
	query, err := requests.BindCardQuery(c)
	if err != nil {
		abortRequestError(c, err)
		return
	}

	cards, err := cc.cards.Filter(c.Request.Context(), repositories.CardFilter{
		Arcana:  card.Arcana(query.Arcana),
		Suit:    card.Suit(query.Suit),
		Keyword: query.Keyword,
		Element: query.Element,
	})
	if err != nil {
		response.ServerError(c, err, "获取牌库失败")
		return
	}

	response.Data(c, gin.H{
		"cards": cards,
		"count": len(cards),
	})
}

// Random 随机一张牌
func (cc *CardController) Random(c *gin.Context) {
	drawn, err := cc.cards.FetchRandom(c.Request.Context())
	if err != nil {
		response.ServerError(c, err, "抽牌失败")
		return
	}
	if drawn == nil {
		response.Abort404(c, "牌库为空")
		return
	}

	response.Data(c, drawn)
}

// Show 单张牌
func (cc *CardController) Show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := cc.cards.FetchByID(c.Request.Context(), id)
	if err != nil {
		response.ServerError(c, err, "获取牌失败")
		return
	}
	if found == nil {
		response.Abort404(c, "牌不存在")
		return
	}

	response.Data(c, found)
}
