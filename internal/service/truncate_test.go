package service

import (
	"strings"
	"testing"
	"unicode"

	"flashcard/internal/entity"
)

func TestTruncateFront(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "不超限原样返回", input: "What is a quasar?", want: "What is a quasar?"},
		{name: "去首尾空白", input: "  What is a quasar?  ", want: "What is a quasar?"},
		{name: "空串", input: "   ", want: ""},
		{name: "超限硬切到上限", input: strings.Repeat("a", 250), want: strings.Repeat("a", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateFront(tt.input)
			if got != tt.want {
				t.Errorf("TruncateFront() = %q, want %q", got, tt.want)
			}
			if n := len([]rune(got)); n > entity.FlashcardFrontMaxLen {
				t.Errorf("结果长度 %d 超过上限 %d", n, entity.FlashcardFrontMaxLen)
			}
		})
	}
}

func TestTruncateBackSentenceBoundary(t *testing.T) {
	// 590 个字符后是句号，窗口内可用，应当在句号后截断。
	input := strings.Repeat("a", 590) + "." + strings.Repeat("b", 59)
	got := TruncateBack(input)
	want := strings.Repeat("a", 590) + "."
	if got != want {
		t.Errorf("截断结果长度 %d, want 591 且以句号结尾", len([]rune(got)))
	}
}

func TestTruncateBackWordBoundary(t *testing.T) {
	// 唯一的句号落在第 610 位，在 600 的窗口之外，
	// 句末截断不可用，应退回窗口内最后一个词边界。
	input := strings.Repeat("a", 300) + " " + strings.Repeat("b", 309) + "." + strings.Repeat("c", 10)
	got := TruncateBack(input)
	if got != strings.Repeat("a", 300) {
		t.Errorf("应在词边界截断为 300 个 a, got 长度 %d", len([]rune(got)))
	}
}

func TestTruncateBackRawCut(t *testing.T) {
	// 无句号无空白，只能硬切。
	input := strings.Repeat("x", 700)
	got := TruncateBack(input)
	if got != strings.Repeat("x", 600) {
		t.Errorf("硬切结果长度 = %d, want 600", len([]rune(got)))
	}
}

func TestTruncateBackMinCut(t *testing.T) {
	// 边界都出现在最小截断位置之前时不采用，退回硬切，结果不得为空。
	input := "Short. " + strings.Repeat("x", 700)
	got := TruncateBack(input)
	if got == "" {
		t.Fatal("截断结果不得为空")
	}
	if n := len([]rune(got)); n < boundaryMinCut {
		t.Errorf("结果长度 %d 小于最小截断位置 %d", n, boundaryMinCut)
	}
}

func TestTruncateBackIdempotent(t *testing.T) {
	inputs := []string{
		"A short answer.",
		strings.Repeat("a", 590) + "." + strings.Repeat("b", 59),
		strings.Repeat("word ", 200),
		strings.Repeat("x", 700),
	}
	for _, input := range inputs {
		once := TruncateBack(input)
		twice := TruncateBack(once)
		if once != twice {
			t.Errorf("二次截断改变了结果: %q -> %q", once, twice)
		}
		if n := len([]rune(once)); n > entity.FlashcardBackMaxLen {
			t.Errorf("结果长度 %d 超过上限 %d", n, entity.FlashcardBackMaxLen)
		}
	}
}

func TestTruncateBackShortInputUnchanged(t *testing.T) {
	input := "Already within the limit, even with a trailing clause"
	if got := TruncateBack(input); got != input {
		t.Errorf("未超限输入被改写: %q", got)
	}
}

func TestTruncateBackCJKPunctuation(t *testing.T) {
	input := strings.Repeat("光", 500) + "。" + strings.Repeat("年", 150)
	got := TruncateBack(input)
	runes := []rune(got)
	if len(runes) != 501 || runes[len(runes)-1] != '。' {
		t.Errorf("中文句号应作为句末边界, got 长度 %d", len(runes))
	}
}

func TestTruncateBackNoTrailingSpace(t *testing.T) {
	input := strings.Repeat("word ", 150)
	got := TruncateBack(input)
	if got == "" {
		t.Fatal("截断结果不得为空")
	}
	last := []rune(got)[len([]rune(got))-1]
	if unicode.IsSpace(last) {
		t.Error("词边界截断后不应保留结尾空白")
	}
}
