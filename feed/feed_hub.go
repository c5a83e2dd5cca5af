package feed

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

// Event types pushed to connected staff dashboards.
const (
	EventOrderCreated   = "order_created"
	EventOrderStatus    = "order_status"
	EventOrderCancelled = "order_cancelled"
	EventStaffNotif     = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected staff client (employee, admin).
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderCreated pushes a freshly placed order to the board.
func BroadcastOrderCreated(order models.Order) {
	broadcast(Message{Event: EventOrderCreated, Data: order})
}

// BroadcastOrderStatus pushes a status transition.
func BroadcastOrderStatus(order models.Order) {
	broadcast(Message{Event: EventOrderStatus, Data: order})
}

// BroadcastOrderCancelled pushes a cancellation with its reason.
func BroadcastOrderCancelled(order models.Order) {
	broadcast(Message{Event: EventOrderCancelled, Data: order})
}

// BroadcastStaffNotification pushes a plain text alert.
func BroadcastStaffNotification(text string) {
	broadcast(Message{Event: EventStaffNotif, Data: text})
}

func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Feed: marshal %s event: %v", msg.Event, err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			// Dead connection, drop it.
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
