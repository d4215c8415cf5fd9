package llm

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// logSnippetLimit 上游应答片段进日志前的最大长度，完整卡片内容不落日志
const logSnippetLimit = 120

// providerLogger 构造带上游标识与模型名的日志入口
func providerLogger(ctx context.Context, providerID, model string) *logrus.Entry {
	fields := logrus.Fields{
		"provider": providerID,
	}
	if trimmedModel := strings.TrimSpace(model); trimmedModel != "" {
		fields["model"] = trimmedModel
	}

	entry := logrus.WithFields(fields)
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	return entry
}

// truncateForLog 截断过长的应答文本，避免生成的卡片原文刷满日志
func truncateForLog(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	runes := []rune(value)
	if len(runes) <= logSnippetLimit {
		return value
	}

	return string(runes[:logSnippetLimit]) + "..."
}
