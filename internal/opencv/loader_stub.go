//go:build !opencv

package opencv

import (
	"errors"

	"histogram-tool/internal/models"
	"histogram-tool/internal/pipeline"
)

// ErrUnavailable is returned when the binary was built without the opencv tag.
var ErrUnavailable = errors.New("built without opencv support; rebuild with -tags opencv")

const Available = false

type Loader struct{}

func NewLoader(pipeline.Logger) (*Loader, error) {
	return nil, ErrUnavailable
}

func (*Loader) LoadFromPath(string) (*models.ImageData, error) {
	return nil, ErrUnavailable
}
