package ports

import "context"

// RepositoryPort looks up source repositories by "owner/name" handle.
type RepositoryPort interface {
	Exists(ctx context.Context, handle string) bool
	GetFile(ctx context.Context, handle string, path string) ([]byte, bool)
}
