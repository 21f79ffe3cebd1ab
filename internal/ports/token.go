package ports

type TokenPort interface {
	Read(path string) (string, error)
}
