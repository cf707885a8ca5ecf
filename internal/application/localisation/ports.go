package localisation

import "context"

// StoredDocument is an object read back from document storage
type StoredDocument struct {
	Key         string
	Data        []byte
	ContentType string
}

// DocumentStorage persists generated documents and uploaded files.
// Get returns a NOT_FOUND domain error when the key does not exist.
type DocumentStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (*StoredDocument, error)
}
