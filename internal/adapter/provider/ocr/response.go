package ocr

// apiResponse is the wire shape returned by the extraction service.
type apiResponse struct {
	StoreName   *string   `json:"store_name"`
	Date        string    `json:"date"`
	Items       []apiItem `json:"items"`
	TotalAmount int       `json:"total_amount"`
}

type apiItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}
