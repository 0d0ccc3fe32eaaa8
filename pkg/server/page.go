package server

import (
	"html/template"
	"net/http"

	"github.com/vango-dev/patchwork/pkg/live/memdom"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="patchwork-root">{{.HTML}}</div>
<script>{{.Script}}</script>
</body>
</html>
`))

// previewScript mirrors the container and reports events. Node ids come
// from the data-pw-id attribute written by memdom.
const previewScript = `(function () {
  var root = document.getElementById("patchwork-root");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (msg) {
    var frame = JSON.parse(msg.data);
    if (frame.type === "snapshot" || frame.type === "mutations") {
      root.innerHTML = frame.html || "";
    } else if (frame.type === "error") {
      console.warn("patchwork", frame.code, frame.message);
    }
  };
  function send(type, ev) {
    var el = ev.target.closest("[` + memdom.NodeIDAttr + `]");
    if (!el) return;
    ws.send(JSON.stringify({
      type: "event",
      node: parseInt(el.getAttribute("` + memdom.NodeIDAttr + `"), 10),
      event: type,
      value: ev.target.value || ""
    }));
  }
  ["click", "input", "change"].forEach(function (type) {
    root.addEventListener(type, function (ev) { send(type, ev); });
  });
  window.addEventListener("hashchange", function () {
    ws.send(JSON.stringify({type: "navigate", hash: location.hash}));
  });
})();`

type pageData struct {
	Title  string
	HTML   template.HTML
	Script template.JS
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	html := s.html()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		Title:  s.config.Title,
		HTML:   template.HTML(html),
		Script: template.JS(previewScript),
	})
	if err != nil {
		s.logger.Error("page render failed", "error", err)
	}
}
