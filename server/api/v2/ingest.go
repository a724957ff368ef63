package v2

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/crashgames/plinkostat/ingest"
	"github.com/crashgames/plinkostat/server/httperr"
	"github.com/crashgames/plinkostat/server/svrcfg"
)

const maxIngestBody = 64 << 10

// IngestHandler 接收採集端推上來的原始回合 payload。
type IngestHandler struct {
	store svrcfg.DropStore
}

func NewIngestHandler(store svrcfg.DropStore) *IngestHandler {
	return &IngestHandler{store: store}
}

// Ingest POST /api/drops/ingest — 解析原始 payload 並落庫。
// 拒收（欄位缺漏、非結果訊息）回 422 並附上分類，方便採集端對帳。
func (h *IngestHandler) Ingest(w http.ResponseWriter, q *http.Request) {
	body, err := io.ReadAll(io.LimitReader(q.Body, maxIngestBody))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	o, err := ingest.Parse(body, time.Now().UTC())
	if err != nil {
		if rej, ok := ingest.AsReject(err); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			writeJSON(w, struct {
				Accepted bool   `json:"accepted"`
				Reason   string `json:"reason"`
				Detail   string `json:"detail,omitempty"`
			}{false, rej.Reason.String(), rej.Detail})
			return
		}
		httperr.Errs(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(q.Context(), handlerTimeout)
	defer cancel()

	if err := h.store.Save(ctx, o); err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, struct {
		Accepted bool   `json:"accepted"`
		DropID   string `json:"drop_id"`
	}{true, o.DropID})
}
