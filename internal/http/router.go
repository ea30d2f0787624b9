package http

import (
	"io/fs"
	nethttp "net/http"

	"github.com/preston-bernstein/husker-kiosk/internal/http/handlers"
)

// Routes collects what the router mounts.
type Routes struct {
	Handler *handlers.Handler
	Admin   *handlers.AdminHandler
	Events  nethttp.Handler // websocket endpoint
	Assets  fs.FS           // page stylesheet and script
	Images  fs.FS           // served under /images/, may be nil
}

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(routes Routes) nethttp.Handler {
	mux := nethttp.NewServeMux()
	h := routes.Handler
	mux.HandleFunc("/", h.Page)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/ready", h.Ready)
	mux.HandleFunc("/api/state", h.State)
	mux.HandleFunc("/api/viewport", h.Viewport)
	mux.HandleFunc("/api/fonts-loaded", h.FontsLoaded)
	if routes.Admin != nil {
		mux.HandleFunc("/reload", routes.Admin.Reload)
	}
	if routes.Events != nil {
		mux.Handle("/ws", routes.Events)
	}
	if routes.Assets != nil {
		mux.Handle("/assets/", nethttp.StripPrefix("/assets/", nethttp.FileServer(nethttp.FS(routes.Assets))))
	}
	if routes.Images != nil {
		mux.Handle("/images/", nethttp.StripPrefix("/images/", nethttp.FileServer(nethttp.FS(routes.Images))))
	}
	return mux
}
