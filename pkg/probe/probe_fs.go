package probe

import (
	"context"
	"os"

	"github.com/mittwald/smoketest/internal/helper"
)

type filesystemProbe struct {
	path string
}

func NewFilesystemProbe(path string) *filesystemProbe {
	return &filesystemProbe{path: helper.ResolveEnv(path)}
}

func (f *filesystemProbe) Exec(_ context.Context) error {
	_, err := os.ReadDir(f.path)
	return err
}
