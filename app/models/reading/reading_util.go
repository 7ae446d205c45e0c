package reading

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrValidation 阅读记录验证失败，阻止持久化
var ErrValidation = errors.New("invalid reading")

// GenerationStatus 解读 / 建议的生成状态
type GenerationStatus string

const (
	StatusPending   GenerationStatus = "pending"   // 尚未尝试
	StatusSucceeded GenerationStatus = "succeeded" // 生成成功
	StatusFailed    GenerationStatus = "failed"    // 尝试后失败
	StatusSkipped   GenerationStatus = "skipped"   // 未尝试（解读失败时不生成建议）
)

// Validate 验证记录
func (r *Reading) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("%w: question is required", ErrValidation)
	}
	if !r.SpreadKind.Valid() {
		return fmt.Errorf("%w: unknown spread kind %q", ErrValidation, r.SpreadKind)
	}
	return nil
}

// BeforeSave GORM 钩子
func (r *Reading) BeforeSave(tx *gorm.DB) error {
	return r.Validate()
}

// BeforeCreate GORM 钩子，未指定占卜时间时使用创建时间
func (r *Reading) BeforeCreate(tx *gorm.DB) error {
	if r.PerformedAt.IsZero() {
		r.PerformedAt = time.Now()
	}
	if r.InterpretationStatus == "" {
		r.InterpretationStatus = StatusPending
	}
	if r.AdviceStatus == "" {
		r.AdviceStatus = StatusPending
	}
	return nil
}

// SetInterpretation 记录解读成功
func (r *Reading) SetInterpretation(text string) {
	r.Interpretation = &text
	r.InterpretationStatus = StatusSucceeded
}

// MarkInterpretationFailed 记录解读失败，建议不再生成
func (r *Reading) MarkInterpretationFailed() {
	r.Interpretation = nil
	r.InterpretationStatus = StatusFailed
	r.Advice = nil
	r.AdviceStatus = StatusSkipped
}

// SetAdvice 记录建议成功
func (r *Reading) SetAdvice(text string) {
	r.Advice = &text
	r.AdviceStatus = StatusSucceeded
}

// MarkAdviceFailed 记录建议生成失败
func (r *Reading) MarkAdviceFailed() {
	r.Advice = nil
	r.AdviceStatus = StatusFailed
}

// IsInterpreted 是否已有解读
func (r *Reading) IsInterpreted() bool {
	return r.InterpretationStatus == StatusSucceeded && r.Interpretation != nil
}

// InterpretationText 解读文本，缺失时为空字符串
func (r *Reading) InterpretationText() string {
	if r.Interpretation == nil {
		return ""
	}
	return *r.Interpretation
}

// AdviceText 建议文本，缺失时为空字符串
func (r *Reading) AdviceText() string {
	if r.Advice == nil {
		return ""
	}
	return *r.Advice
}

// Querent 提问者名字，缺失时为空字符串
func (r *Reading) Querent() string {
	if r.QuerentName == nil {
		return ""
	}
	return *r.QuerentName
}

// SpreadDescription 牌阵描述
func (r *Reading) SpreadDescription() string {
	return r.SpreadKind.Description()
}
