package storage

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestBuildObjectPath(t *testing.T) {
	now := time.Now().UTC()
	datedir := fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day())

	tests := []struct {
		name     string
		category string
		baseName string
		ext      string
		want     string
	}{
		{
			name:     "导出文件",
			category: "exports",
			baseName: "collection-7-abc",
			ext:      "json",
			want:     "exports/" + datedir + "/collection-7-abc.json",
		},
		{
			name:     "类别为空时归档到 exports",
			category: "",
			baseName: "weekly",
			ext:      "csv",
			want:     "exports/" + datedir + "/weekly.csv",
		},
		{
			name:     "非法字符被剔除",
			category: "../exports",
			baseName: "My Export!",
			ext:      ".CSV",
			want:     "exports/" + datedir + "/my-export.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildObjectPath(tt.category, tt.baseName, tt.ext); got != tt.want {
				t.Errorf("buildObjectPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildObjectPathEmptyBaseName(t *testing.T) {
	got := buildObjectPath("exports", "", "json")
	if !strings.HasPrefix(got, "exports/") || !strings.HasSuffix(got, ".json") {
		t.Fatalf("buildObjectPath() = %q", got)
	}
	// 缺省文件名是时间戳，不能为空
	parts := strings.Split(got, "/")
	if filename := parts[len(parts)-1]; filename == ".json" {
		t.Error("缺省文件名不应为空")
	}
}

func TestNormalizeExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"json", "json"},
		{".csv", "csv"},
		{"  CSV  ", "csv"},
		{"", "bin"},
	}
	for _, tt := range tests {
		if got := normalizeExtension(tt.in); got != tt.want {
			t.Errorf("normalizeExtension(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
