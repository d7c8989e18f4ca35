package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/ward-roster/roster/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default_shifts.yaml
var defaultShifts []byte

type file struct {
	Shifts []domain.ShiftDefinition `yaml:"shifts"`
}

func LoadYAML(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("无法解析班次配置: %w", err)
	}
	return New(f.Shifts)
}

// LoadFile 路径为空时使用内置的默认班次
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	return LoadYAML(fd)
}

func Default() (*Catalog, error) {
	return LoadYAML(bytes.NewReader(defaultShifts))
}
