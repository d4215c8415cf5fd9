package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"flashcard/internal/entity"
)

// exportCard 导出文件里单张卡片的形态
type exportCard struct {
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	Source     string    `json:"source"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
}

type exportDocument struct {
	Collection string       `json:"collection"`
	ExportedAt time.Time    `json:"exported_at"`
	CardCount  int          `json:"card_count"`
	Cards      []exportCard `json:"cards"`
}

// RenderExport 把一个集合的卡片渲染成可下载的文件内容。
// 返回文件字节与扩展名（不含点）。
func RenderExport(collectionName string, cards []entity.DbFlashcard, format string) ([]byte, string, error) {
	switch format {
	case entity.ExportFormatJSON:
		data, err := renderExportJSON(collectionName, cards)
		return data, "json", err
	case entity.ExportFormatCSV:
		data, err := renderExportCSV(cards)
		return data, "csv", err
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func renderExportJSON(collectionName string, cards []entity.DbFlashcard) ([]byte, error) {
	doc := exportDocument{
		Collection: collectionName,
		ExportedAt: time.Now().UTC(),
		CardCount:  len(cards),
		Cards:      make([]exportCard, 0, len(cards)),
	}
	for _, card := range cards {
		doc.Cards = append(doc.Cards, exportCard{
			Front:      card.Front,
			Back:       card.Back,
			Source:     card.Source,
			IsFavorite: card.IsFavorite,
			CreatedAt:  card.CreatedAt,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

func renderExportCSV(cards []entity.DbFlashcard) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"front", "back", "source", "is_favorite", "created_at"}); err != nil {
		return nil, err
	}
	for _, card := range cards {
		record := []string{
			card.Front,
			card.Back,
			card.Source,
			fmt.Sprintf("%t", card.IsFavorite),
			card.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
