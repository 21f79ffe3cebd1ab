package adapters

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"

	"catalog-audit/internal/ports"
	"catalog-audit/internal/shared"
)

// TokenFileAdapter reads an API token from the first line of a file.
type TokenFileAdapter struct {
	Fs   afero.Fs
	Home func() (string, error)
}

func NewTokenFileAdapter(fs afero.Fs) TokenFileAdapter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return TokenFileAdapter{Fs: fs, Home: os.UserHomeDir}
}

// Read returns an empty token without error when path is empty.
func (a TokenFileAdapter) Read(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	expanded, err := a.expand(path)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(a.Fs, expanded)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read token file").
			WithCause(err)
	}
	token := shared.FirstLine(string(data))
	if token == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("token file is empty")
	}
	return token, nil
}

func (a TokenFileAdapter) expand(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home := a.Home
	if home == nil {
		home = os.UserHomeDir
	}
	dir, err := home()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to resolve home directory").
			WithCause(err)
	}
	return filepath.Join(dir, strings.TrimPrefix(path, "~")), nil
}

var _ ports.TokenPort = TokenFileAdapter{}
