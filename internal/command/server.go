package command

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Server exposes the dispatcher as the POST /cmd endpoint, the same shape as
// the bridge protocol: a JSON request in, {"ok":...,"error":...} out. HTTP
// status is 200 for every processed command; failure lives in the body so
// callers have a single decode path.
type Server struct {
	Dispatcher *Dispatcher
	Log        *zap.Logger
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /cmd", s.handleCmd)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleCmd(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeResult(w, Result{OK: false, Error: "read request: " + err.Error()})
		return
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeResult(w, Result{OK: false, Error: "bad request: " + err.Error()})
		return
	}
	res := s.Dispatcher.Execute(r.Context(), req)
	if s.Log != nil {
		s.Log.Debug("command handled",
			zap.String("kind", string(req.Kind)),
			zap.Bool("ok", res.OK))
	}
	writeResult(w, res)
}

func writeResult(w http.ResponseWriter, res Result) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
