package entity

const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

type ExportRequest struct {
	Format string `json:"format"`
}

type ExportResponse struct {
	Format    string `json:"format"`
	Path      string `json:"path"`
	URL       string `json:"url,omitempty"`
	CardCount int    `json:"card_count"`
}
