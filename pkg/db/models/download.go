package models

import "time"

// Download records a wallpaper written to disk. Filepath is unique, SHA256 is not:
// identical content under different names is what the dedup check looks for.
type Download struct {
	ID           uint      `gorm:"primaryKey"`
	Filepath     string    `gorm:"type:text;not null;uniqueIndex"`
	SHA256       string    `gorm:"column:sha256;type:text;not null;index:idx_downloads_sha256"`
	DownloadDate time.Time `gorm:"not null;index:idx_downloads_date"`
	SourceURL    string    `gorm:"type:text"`
}

// ShortHash returns the first 16 hex characters of the content hash.
func (d Download) ShortHash() string {
	if len(d.SHA256) <= 16 {
		return d.SHA256
	}
	return d.SHA256[:16]
}
