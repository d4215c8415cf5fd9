package llm

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "纯 JSON",
			raw:      `{"front":"Q","back":"A."}`,
			expected: `{"front":"Q","back":"A."}`,
			ok:       true,
		},
		{
			name:     "代码栅栏包裹",
			raw:      "```json\n{\"front\":\"Q\",\"back\":\"A.\"}\n```",
			expected: `{"front":"Q","back":"A."}`,
			ok:       true,
		},
		{
			name:     "前后有说明文字",
			raw:      `Sure, here is the card: {"front":"Q","back":"A."} Hope it helps!`,
			expected: `{"front":"Q","back":"A."}`,
			ok:       true,
		},
		{
			name:     "字符串内包含花括号",
			raw:      `{"front":"set {a, b}","back":"A closing } inside."}`,
			expected: `{"front":"set {a, b}","back":"A closing } inside."}`,
			ok:       true,
		},
		{
			name:     "字符串内包含转义引号",
			raw:      `{"front":"he said \"}\"","back":"A."}`,
			expected: `{"front":"he said \"}\"","back":"A."}`,
			ok:       true,
		},
		{
			name:     "嵌套对象取最外层",
			raw:      `{"outer":{"inner":1}} trailing`,
			expected: `{"outer":{"inner":1}}`,
			ok:       true,
		},
		{
			name: "无 JSON",
			raw:  "I cannot help with that.",
			ok:   false,
		},
		{
			name: "未配平",
			raw:  `{"front":"Q","back":"A."`,
			ok:   false,
		},
		{
			name: "空输入",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.raw)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
