package service

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"flashcard/internal/entity"
)

func exportFixture() []entity.DbFlashcard {
	return []entity.DbFlashcard{
		{
			Front:      "What is entropy?",
			Back:       "A measure of disorder in a system.",
			Source:     entity.FlashcardSourceManual,
			IsFavorite: true,
			CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Front:     `Front with "quotes", and commas`,
			Back:      "Line one\nline two.",
			Source:    entity.FlashcardSourceAutoGenerated,
			CreatedAt: time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC),
		},
	}
}

func TestRenderExportJSON(t *testing.T) {
	data, ext, err := RenderExport("Physics", exportFixture(), entity.ExportFormatJSON)
	if err != nil {
		t.Fatalf("RenderExport() error = %v", err)
	}
	if ext != "json" {
		t.Errorf("扩展名 = %q, want json", ext)
	}

	var doc struct {
		Collection string `json:"collection"`
		CardCount  int    `json:"card_count"`
		Cards      []struct {
			Front string `json:"front"`
			Back  string `json:"back"`
		} `json:"cards"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("导出内容不是合法 JSON: %v", err)
	}
	if doc.Collection != "Physics" || doc.CardCount != 2 || len(doc.Cards) != 2 {
		t.Errorf("文档元信息不符: %+v", doc)
	}
	if doc.Cards[0].Front != "What is entropy?" {
		t.Errorf("首张卡片 = %q", doc.Cards[0].Front)
	}
}

func TestRenderExportCSV(t *testing.T) {
	data, ext, err := RenderExport("Physics", exportFixture(), entity.ExportFormatCSV)
	if err != nil {
		t.Fatalf("RenderExport() error = %v", err)
	}
	if ext != "csv" {
		t.Errorf("扩展名 = %q, want csv", ext)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("导出内容不是合法 CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("行数 = %d, want 表头加两行", len(records))
	}
	if records[0][0] != "front" {
		t.Errorf("表头 = %v", records[0])
	}
	// 引号与换行需要被正确转义后读回
	if records[2][0] != `Front with "quotes", and commas` {
		t.Errorf("转义还原失败: %q", records[2][0])
	}
	if records[2][1] != "Line one\nline two." {
		t.Errorf("换行还原失败: %q", records[2][1])
	}
}

func TestRenderExportUnknownFormat(t *testing.T) {
	if _, _, err := RenderExport("Physics", nil, "xml"); err == nil {
		t.Fatal("未知格式应报错")
	}
}

func TestRenderExportEmptyCollection(t *testing.T) {
	data, _, err := RenderExport("Empty", nil, entity.ExportFormatJSON)
	if err != nil {
		t.Fatalf("RenderExport() error = %v", err)
	}
	var doc struct {
		CardCount int           `json:"card_count"`
		Cards     []interface{} `json:"cards"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("导出内容不是合法 JSON: %v", err)
	}
	if doc.CardCount != 0 || len(doc.Cards) != 0 {
		t.Errorf("空集合导出应为零张卡片: %+v", doc)
	}
}
