package llm

// CardContext 单张牌的完整上下文，用于拼装提示词
type CardContext struct {
	Name             string
	Position         string
	Reversed         bool
	Keywords         string
	UprightMeaning   string
	ReversedMeaning  string
	Element          string
	AstrologicalSign string
}

// ReadingContext 追问时携带的原始解读
type ReadingContext struct {
	Question       string
	Interpretation string
	Advice         string
}

// Operation 调用类型
type Operation string

const (
	OpInterpret Operation = "interpret"
	OpAdvice    Operation = "advice"
	OpFollowup  Operation = "followup"
)

// callSettings 每类调用的生成参数
type callSettings struct {
	MaxTokens   int
	Temperature float64
}

var settings = map[Operation]callSettings{
	OpInterpret: {MaxTokens: 1500, Temperature: 0.7},
	OpAdvice:    {MaxTokens: 800, Temperature: 0.8},
	OpFollowup:  {MaxTokens: 1000, Temperature: 0.7},
}

// messagesRequest /v1/messages 请求结构
type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse /v1/messages 响应结构
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
