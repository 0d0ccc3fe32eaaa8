package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/reconcile"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// Logging creates middleware that logs one line per render cycle: Info on
// success, Error on failure. A nil logger uses slog.Default().
func Logging(logger *slog.Logger) reconcile.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next reconcile.RenderFunc) reconcile.RenderFunc {
		return func(ctx context.Context, tree *vdom.VNode, container live.Node) (reconcile.Stats, error) {
			start := time.Now()
			st, err := next(ctx, tree, container)
			attrs := []any{
				"root", rootName(tree),
				"duration", time.Since(start),
				"mounted", st.Mounted,
				"unmounted", st.Unmounted,
				"moved", st.Moved,
				"mutations", st.Mutations(),
			}
			if err != nil {
				logger.ErrorContext(ctx, "render failed", append(attrs, "error", err)...)
				return st, err
			}
			logger.InfoContext(ctx, "render", attrs...)
			return st, nil
		}
	}
}
