package reading

import "time"

// FollowupExchange 一次追问及回答，不属于阅读记录本身，只做临时保存
type FollowupExchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}
