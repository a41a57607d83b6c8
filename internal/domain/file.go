package domain

// Media types accepted for employee images.
const (
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// ImageDescriptor describes an upload that has already been written to the
// uploads directory and is waiting to be attached to an employee record.
type ImageDescriptor struct {
	// Path is the reference stored on the record, e.g. "uploads/1700000000000-me.png".
	Path string `json:"path"`
	// MediaType is the declared (and sniffed) content type.
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
	// OriginalName is the client-side filename.
	OriginalName string `json:"originalName"`
}

// IsAllowedImageType reports whether mediaType may be stored as an employee image.
func IsAllowedImageType(mediaType string) bool {
	switch mediaType {
	case MediaTypePNG, MediaTypeJPEG:
		return true
	}
	return false
}
