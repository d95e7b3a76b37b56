package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"news-credibility-service/internal/app"
)

// WSHandler streams article credibility updates to websocket clients.
type WSHandler struct {
	feed     *app.ArticleFeed
	stats    *app.StatsService
	upgrader websocket.Upgrader
}

func NewWSHandler(feed *app.ArticleFeed, stats *app.StatsService) *WSHandler {
	return &WSHandler{
		feed:  feed,
		stats: stats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and pushes a stats snapshot followed by every
// update published for the article until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	articleID, err := strconv.ParseInt(r.URL.Query().Get("articleId"), 10, 64)
	if err != nil || articleID <= 0 {
		http.Error(w, "missing or invalid articleId", http.StatusBadRequest)
		return
	}
	snapshot, err := h.stats.ArticleStatistics(r.Context(), articleID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe(articleID)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches conn for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "update", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "snapshot", Payload: snapshot}

	// Clients don't send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
