// Package random 提供可注入的随机数来源，生产环境使用全局随机数，测试使用固定种子
package random

import (
	"math/rand/v2"
)

// Source 随机数来源
type Source interface {
	// IntN 返回 [0, n) 范围内的随机整数
	IntN(n int) int
}

// globalSource 使用 math/rand/v2 的全局来源，自动播种且并发安全
type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// Default 返回生产环境使用的随机数来源
func Default() Source {
	return globalSource{}
}

// NewSeeded 返回固定种子的随机数来源，结果可复现。非并发安全，仅用于测试和单次流程
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Coin 公平的抛硬币
func Coin(src Source) bool {
	return src.IntN(2) == 1
}

// Pick 从 [0, total) 中不重复地选出 min(n, total) 个下标，顺序即抽取顺序
// 使用部分 Fisher-Yates 洗牌
func Pick(src Source, total, n int) []int {
	if n > total {
		n = total
	}
	if n <= 0 {
		return []int{}
	}

	indices := make([]int, total)
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + src.IntN(total-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices[:n]
}
