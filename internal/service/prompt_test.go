package service

import (
	"strings"
	"testing"
)

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt("Photosynthesis", "Plants and light.", []string{"Old question one", "Old question two"}, "nonce-123")

	for _, want := range []string{"Photosynthesis", "Plants and light.", "Old question one", "Old question two", "nonce-123"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("提示词缺少 %q", want)
		}
	}
	if !strings.Contains(prompt, "Do not repeat") {
		t.Error("携带防重复列表时应包含对应指令")
	}
}

func TestBuildUserPromptWithoutAvoidList(t *testing.T) {
	prompt := buildUserPrompt("Photosynthesis", "", nil, "nonce-123")
	if strings.Contains(prompt, "Do not repeat") {
		t.Error("无防重复列表时不应出现对应指令")
	}
	if strings.Contains(prompt, "Topic description") {
		t.Error("空描述不应出现在提示词中")
	}
}

func TestClampAvoidFronts(t *testing.T) {
	fronts := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		fronts = append(fronts, strings.Repeat("q", 200))
	}
	fronts = append(fronts, "   ")

	got := clampAvoidFronts(fronts)
	if len(got) != maxAvoidFronts {
		t.Errorf("条数 = %d, want %d", len(got), maxAvoidFronts)
	}
	for _, front := range got {
		if n := len([]rune(front)); n > avoidFrontMaxLen {
			t.Errorf("单条长度 %d 超过 %d", n, avoidFrontMaxLen)
		}
	}
}

func TestClampAvoidFrontsSkipsBlank(t *testing.T) {
	got := clampAvoidFronts([]string{"  ", "real front", ""})
	if len(got) != 1 || got[0] != "real front" {
		t.Errorf("空白条目应被跳过, got %v", got)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt()
	for _, want := range []string{`"front"`, `"back"`, "JSON"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("系统提示词缺少 %q", want)
		}
	}
}
