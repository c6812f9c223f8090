package ports

import (
	"context"
	"errors"
)

// Asset store errors
var (
	// ErrAssetWrite is returned when a blob cannot be durably written.
	// The content service propagates it as a failed create/update.
	ErrAssetWrite = errors.New("asset write failed")
)

// AssetStore is the persistence contract for binary attachments. Save must
// be durable before it returns; Remove is best-effort cleanup and absence of
// the target is not an error.
type AssetStore interface {
	// Save stores the bytes under a storage name derived from suggestedName
	// and returns the public URL together with the storage name.
	Save(ctx context.Context, data []byte, suggestedName string) (url string, name string, err error)

	// Remove deletes the blob with the given storage name. Implementations
	// never fail observably: a missing blob is fine and any other failure is
	// logged and swallowed.
	Remove(ctx context.Context, name string)
}
