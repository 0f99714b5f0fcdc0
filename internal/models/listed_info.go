package models

// ListedInfo holds the listed-company master record for a security code.
// Only used to decorate human-readable output; the simulation itself
// never depends on it.
type ListedInfo struct {
	ID           uint   `gorm:"primarykey"`
	Code         string `gorm:"uniqueIndex;not null" json:"code"`
	CompanyName  string `json:"company_name"`
	MarketName   string `json:"market_name"`
	Sector33Name string `json:"sector33_name"`
}
