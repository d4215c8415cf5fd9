package service

import (
	"fmt"
	"strings"
)

const (
	// maxAvoidFronts 提示词中最多携带的防重复正面数量
	maxAvoidFronts = 8
	// avoidFrontMaxLen 每条防重复正面在提示词中的最大长度
	avoidFrontMaxLen = 120
)

// buildSystemPrompt 构造系统指令：只输出 JSON 对象，并约束正反面的格式。
func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You write study flashcards. Respond with a single JSON object and nothing else: ")
	b.WriteString(`{"front": "...", "back": "..."}`)
	b.WriteString("\nRules:\n")
	b.WriteString(fmt.Sprintf("- \"front\" is a clear question or cue, at most %d characters.\n", 200))
	b.WriteString(fmt.Sprintf("- \"back\" is the answer, aim for %d-%d characters, and it must end with a terminal punctuation mark (., ! or ?).\n", 350, 580))
	b.WriteString("- Avoid stock academic phrasing such as \"it is important to note\" or \"in conclusion\".\n")
	b.WriteString("- Pick a different specific sub-aspect of the topic on every call instead of restating the topic definition.\n")
	b.WriteString("- Do not wrap the JSON in code fences or add commentary.")
	return b.String()
}

// buildUserPrompt 构造用户指令：主题信息、防重复列表与一次性 nonce。
// nonce 只用来绕过上游缓存，要求模型完全忽略它，绝不允许出现在输出里。
func buildUserPrompt(title, description string, avoidFronts []string, nonce string) string {
	var b strings.Builder
	b.WriteString("Topic: ")
	b.WriteString(strings.TrimSpace(title))
	if trimmed := strings.TrimSpace(description); trimmed != "" {
		b.WriteString("\nTopic description: ")
		b.WriteString(trimmed)
	}

	avoid := clampAvoidFronts(avoidFronts)
	if len(avoid) > 0 {
		b.WriteString("\nDo not repeat any of these existing card fronts:")
		for _, front := range avoid {
			b.WriteString("\n- ")
			b.WriteString(front)
		}
	}

	b.WriteString("\nGenerate one new flashcard for this topic.")
	b.WriteString("\nRequest nonce (ignore, never include in output): ")
	b.WriteString(nonce)
	return b.String()
}

// clampAvoidFronts 最多保留 maxAvoidFronts 条，每条截断到 avoidFrontMaxLen。
func clampAvoidFronts(fronts []string) []string {
	out := make([]string, 0, maxAvoidFronts)
	for _, front := range fronts {
		trimmed := strings.TrimSpace(front)
		if trimmed == "" {
			continue
		}
		runes := []rune(trimmed)
		if len(runes) > avoidFrontMaxLen {
			trimmed = string(runes[:avoidFrontMaxLen])
		}
		out = append(out, trimmed)
		if len(out) == maxAvoidFronts {
			break
		}
	}
	return out
}

// buildShortenPrompt 构造压缩背面文本的指令（二次调用）。
func buildShortenPrompt(back string, maxLen int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Shorten the following flashcard answer to at most %d characters. ", maxLen))
	b.WriteString("Preserve the meaning, keep complete sentences only, and end with a terminal punctuation mark. ")
	b.WriteString("Respond with the shortened text only.\n\n")
	b.WriteString(back)
	return b.String()
}
