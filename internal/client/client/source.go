package client

import "context"

// DataSource reads the server's published /data resources (key descriptor,
// encrypted index, asset blobs). path is relative to the data root, e.g.
// "key_info.yaml" or "media/<uid>/thumb.webp.enc".
//
// A missing resource yields an error matching ErrNotFound. Reads always
// bypass caches.
type DataSource interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}
