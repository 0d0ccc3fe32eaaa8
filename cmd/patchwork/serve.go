package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/patchwork"
	"github.com/vango-dev/patchwork/pkg/fixture"
	"github.com/vango-dev/patchwork/pkg/live/memdom"
	"github.com/vango-dev/patchwork/pkg/navigation"
	"github.com/vango-dev/patchwork/pkg/server"
	"github.com/vango-dev/patchwork/pkg/store"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// previewState is the state of the serve command: which fixture is shown
// and how often an element with a handler was clicked.
type previewState struct {
	Page   int
	Clicks int
	Last   string
}

func serveCmd(c *cli) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve <tree.yaml>...",
		Short: "Preview fixtures in the browser",
		Long: `Start a preview server for one or more fixtures.

Each fixture is a page selected by the location hash: #/0 is the first file,
#/1 the second and so on. Every handler named in a fixture (onclick: save)
counts clicks; the count is shown in the title attribute of the preview
wrapper, so you can watch the reconciler patch a single attribute.

Examples:
  patchwork serve trees/home.yaml trees/list.yaml
  patchwork serve trees/*.yaml --port 8080`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				c.cfg.Server.Port = port
			}
			if host != "" {
				c.cfg.Server.Host = host
			}

			srv, err := c.preview(args)
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from patchwork.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from patchwork.yaml)")
	return cmd
}

// preview builds the app and server for the given fixture files.
func (c *cli) preview(files []string) (*server.Server, error) {
	st := store.New(previewState{})
	click := func(event, name string) any {
		return func() {
			st.Update(func(s previewState) previewState {
				s.Clicks++
				s.Last = event + ":" + name
				return s
			})
		}
	}

	pages := make([]*vdom.VNode, 0, len(files))
	for _, file := range files {
		tree, err := fixture.Load(file, fixture.WithHandlers(click))
		if err != nil {
			return nil, err
		}
		pages = append(pages, tree)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	doc := memdom.NewDocument()
	app := patchwork.New(doc, st, patchwork.Config{
		Logger:     c.logger,
		Middleware: c.renderMiddleware(registry),
	})

	view := func(s previewState) *vdom.VNode {
		return vdom.Div(
			vdom.ID("preview"),
			vdom.Data("page", strconv.Itoa(s.Page)),
			vdom.AttrIf(s.Clicks > 0, vdom.TitleAttr(fmt.Sprintf("%d click(s), last %s", s.Clicks, s.Last))),
			pages[s.Page],
		)
	}
	if err := app.Mount(doc.Body(), view); err != nil {
		return nil, err
	}

	app.Navigate(doc.Window(), pageRoute(len(pages)))

	metricsPath := ""
	if c.cfg.Render.Metrics {
		metricsPath = c.cfg.Server.MetricsPath
	}

	return server.New(doc, app, &server.Config{
		Address:     net.JoinHostPort(c.cfg.Server.Host, strconv.Itoa(c.cfg.Server.Port)),
		Title:       c.cfg.Name,
		MetricsPath: metricsPath,
		Gatherer:    registry,
		Logger:      c.logger,
	}), nil
}

// pageRoute selects the fixture page named by the hash: "#/" is the first
// page, "#/2" the third. Other routes keep the current page.
func pageRoute(pages int) func(previewState, navigation.Route) previewState {
	router := navigation.NewRouter()
	router.Handle("/", nil)
	router.Handle("/{page:[0-9]+}", nil)

	return func(s previewState, r navigation.Route) previewState {
		m, ok := router.Match(r)
		if !ok {
			return s
		}
		if m.Pattern == "/" {
			s.Page = 0
			return s
		}
		if i, err := strconv.Atoi(m.Param("page")); err == nil && i < pages {
			s.Page = i
		}
		return s
	}
}
