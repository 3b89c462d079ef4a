package live

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/smartorder/backend/utils"
)

// Event types
const (
	EventCartUpdate    = "cart_update"
	EventOrdersUpdate  = "orders_update"
	EventRequestUpdate = "request_update"
	EventTableUpdate   = "table_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type clientScope struct {
	restaurantID string
	tableID      string
}

// Hub menampung koneksi websocket client meja dan menyiarkan snapshot
// dokumen ke koneksi yang scope-nya cocok. Device di meja lain tidak
// pernah menerima data meja ini.
type Hub struct {
	clients map[*websocket.Conn]clientScope
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]clientScope),
}

// RegisterClient -> menambahkan koneksi dengan scope mejanya.
func RegisterClient(conn *websocket.Conn, restaurantID, tableID string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = clientScope{restaurantID: restaurantID, tableID: tableID}
}

// UnregisterClient -> melepaskan koneksi.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastSnapshot menyiarkan snapshot satu collection ke semua koneksi
// meja terkait. Dipasang sebagai Broadcast hook di store.ChangeMonitor.
func BroadcastSnapshot(collection, restaurantID, tableID string, data interface{}) {
	event := ""
	switch collection {
	case "carts":
		event = EventCartUpdate
	case "orders":
		event = EventOrdersUpdate
	case "requests":
		event = EventRequestUpdate
	case "tables":
		event = EventTableUpdate
	default:
		return
	}

	broadcast(restaurantID, tableID, Message{Event: event, Data: data})
}

func broadcast(restaurantID, tableID string, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling live message: %v", err)
		return
	}

	for conn, scope := range hub.clients {
		if scope.restaurantID != restaurantID || scope.tableID != tableID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// Koneksi mati dibersihkan saat write gagal
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
