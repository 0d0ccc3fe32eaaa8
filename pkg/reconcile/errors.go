package reconcile

import (
	"errors"
	"fmt"

	perrors "github.com/vango-dev/patchwork/internal/errors"
)

var (
	// ErrReentrantRender is returned by a render started while another
	// render on the same Renderer is in progress.
	ErrReentrantRender = perrors.New("E101")

	// ErrNilContainer is returned when Render is called without a container.
	ErrNilContainer = errors.New("reconcile: nil container")
)

// liveError wraps an error returned by the live tree. The underlying error
// stays reachable through errors.Is and errors.As.
func liveError(op string, err error) error {
	return perrors.New("E102").Wrap(fmt.Errorf("%s: %w", op, err))
}
