package models

import "time"

// Media kind values.
const (
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypeDocument = "document"
	MediaTypeOther    = "other"
)

// Media records an uploaded file stored on local disk. Articles reference
// media both as content attachments (many-to-many) and as featured images.
type Media struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UploadedBy uint      `gorm:"index;not null" json:"uploaded_by"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FilePath   string    `gorm:"size:1024;not null" json:"-"`
	URL        string    `gorm:"size:1024;not null" json:"url"`
	MimeType   string    `gorm:"size:128" json:"mime_type"`
	Size       int64     `gorm:"not null;default:0" json:"size"`
	Type       string    `gorm:"size:16;index;not null;default:'other'" json:"type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Uploader User `gorm:"foreignKey:UploadedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// MediaTypeFromMime buckets a MIME type into the stored media kind.
func MediaTypeFromMime(mime string) string {
	switch {
	case len(mime) >= 6 && mime[:6] == "image/":
		return MediaTypeImage
	case len(mime) >= 6 && mime[:6] == "video/":
		return MediaTypeVideo
	case mime == "application/pdf" || mime == "text/plain":
		return MediaTypeDocument
	default:
		return MediaTypeOther
	}
}
