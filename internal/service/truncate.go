package service

import (
	"strings"
	"unicode"

	"flashcard/internal/entity"
)

// boundaryMinCut 边界裁剪允许的最小截断位置：句末或词边界必须出现在
// 至少这么多字符之后才会被采用，否则退回下一级策略。
const boundaryMinCut = 80

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// TruncateFront 规范化卡片正面：去首尾空白并硬截断到上限。
func TruncateFront(value string) string {
	trimmed := strings.TrimSpace(value)
	runes := []rune(trimmed)
	if len(runes) <= entity.FlashcardFrontMaxLen {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:entity.FlashcardFrontMaxLen]))
}

// TruncateBack 对卡片背面做边界安全裁剪。
func TruncateBack(value string) string {
	return truncateAtBoundary(value, entity.FlashcardBackMaxLen, boundaryMinCut)
}

// truncateAtBoundary 把文本裁剪到 maxLen 个字符以内。
// 优先在句末标点处截断，其次在词边界处截断，两者都要求截断位置
// 不早于 minCut；都不可用时在 maxLen 处硬切。不超限的输入原样返回。
func truncateAtBoundary(value string, maxLen, minCut int) string {
	trimmed := strings.TrimSpace(value)
	runes := []rune(trimmed)
	if len(runes) <= maxLen {
		return trimmed
	}

	window := runes[:maxLen]

	// 句末标点：截断点为标点之后，且截断结果本身必须 ≤ maxLen，
	// 所以只在窗口内搜索。
	for i := len(window) - 1; i >= minCut-1; i-- {
		if isSentenceEnd(window[i]) {
			return string(window[:i+1])
		}
	}

	// 词边界：在空白处截断，不把词切成两半。
	for i := len(window) - 1; i >= minCut; i-- {
		if unicode.IsSpace(window[i]) {
			return strings.TrimRightFunc(string(window[:i]), unicode.IsSpace)
		}
	}

	// 没有可用边界时硬切。
	return strings.TrimRightFunc(string(window), unicode.IsSpace)
}
