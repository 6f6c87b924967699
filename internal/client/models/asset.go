package models

import "fmt"

// Asset selects one of the two payloads a record references.
type Asset int

const (
	AssetThumbnail Asset = iota
	AssetFile
)

func (a Asset) String() string {
	switch a {
	case AssetThumbnail:
		return "thumbnail"
	case AssetFile:
		return "file"
	default:
		return fmt.Sprintf("asset(%d)", int(a))
	}
}

// AssetPath returns the data-relative path of the selected payload.
func (r Record) AssetPath(a Asset) string {
	switch a {
	case AssetThumbnail:
		return r.Thumbnail
	case AssetFile:
		return r.File
	default:
		return ""
	}
}
