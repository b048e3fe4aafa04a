package chat

import (
	"log"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Hub is the chat broadcast registry. All connection state is owned by the
// single goroutine inside Run; handlers talk to it only through channels,
// so there is no shared list to guard.
type Hub struct {
	register   chan *client
	unregister chan string
	broadcast  chan []byte
	done       chan struct{}
}

type client struct {
	id   string
	send chan []byte
}

// NewHub creates a hub. Call Run in its own goroutine before serving
// connections.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan string),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run owns the connection registry until Stop is called. Register,
// unregister and broadcast are serialized here; slow clients get messages
// dropped rather than stalling the hub.
func (h *Hub) Run() {
	clients := make(map[string]*client)
	for {
		select {
		case c := <-h.register:
			clients[c.id] = c
		case id := <-h.unregister:
			if c, ok := clients[id]; ok {
				delete(clients, id)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for _, c := range clients {
				select {
				case c.send <- msg:
				default:
					// Client is not draining; drop the message for it.
				}
			}
		case <-h.done:
			for id, c := range clients {
				delete(clients, id)
				close(c.send)
			}
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast queues a message for every connected client.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Handler returns the websocket handler for the chat endpoint. Each
// connection gets a unique id and is added to the registry for its
// lifetime.
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		c := &client{
			id:   uuid.New().String(),
			send: make(chan []byte, 16),
		}
		h.register <- c

		// Writer: pump broadcasts to the socket until the hub closes the
		// send channel.
		writeDone := make(chan struct{})
		go func() {
			defer close(writeDone)
			for msg := range c.send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			h.Broadcast(msg)
		}

		select {
		case h.unregister <- c.id:
		case <-h.done:
		}
		<-writeDone
		if err := conn.Close(); err != nil {
			log.Printf("chat: error closing connection %s: %v", c.id, err)
		}
	}
}
