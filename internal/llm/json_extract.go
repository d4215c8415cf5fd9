package llm

import "strings"

// ExtractJSONObject 从原始文本中提取第一个配平的 {...} JSON 对象。
// 模型经常把 JSON 包在代码栅栏或说明文字里，这里按括号配平扫描，
// 并正确跳过字符串字面量内的花括号与转义字符。
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
