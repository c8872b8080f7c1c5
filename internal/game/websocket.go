package game

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection and starts its read loop. All
// room interaction happens through events on this connection afterwards.
func HandleWebSocket(reg *Registry, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[HandleWebSocket] upgrade failed: %v", err)
			return
		}
		client := newClient(conn)
		log.Printf("[HandleWebSocket] client %s connected", client.ID)
		go readLoop(reg, hub, client)
	}
}

// readLoop processes one connection's events to completion, one at a time.
// Each handler mutates the room synchronously and broadcasts before the next
// message is read, so a room's snapshots are always consistent with respect
// to this connection.
func readLoop(reg *Registry, hub *Hub, client *Client) {
	defer func() {
		client.conn.Close()
		hub.Drop(client)
		log.Printf("[readLoop] client %s disconnected", client.ID)
	}()

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[readLoop] read error for client %s: %v", client.ID, err)
			}
			return
		}

		var msg Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[readLoop] client %s sent malformed message: %v", client.ID, err)
			continue
		}

		switch msg.Type {
		case EventJoin:
			handleJoin(reg, hub, client, msg.Data)
		case EventStart:
			handleStart(reg, hub, client, msg.Data)
		case EventSend:
			handleSend(reg, hub, client, msg.Data)
		case EventLeave:
			handleLeave(reg, hub, client, msg.Data)
		default:
			log.Printf("[readLoop] client %s sent unknown event %q", client.ID, msg.Type)
		}
	}
}

func handleJoin(reg *Registry, hub *Hub, client *Client, data json.RawMessage) {
	var p JoinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[handleJoin] bad payload from client %s: %v", client.ID, err)
		return
	}
	room, err := reg.GetRoom(p.RoomID)
	if err != nil {
		log.Printf("[handleJoin] client %s: %v", client.ID, err)
		return
	}

	hub.Subscribe(p.RoomID, client)
	room.AddPlayer(p.Name)
	// Broadcast to the whole group including the joiner, so a duplicate
	// join still answers with the current snapshot.
	hub.BroadcastSnapshot(p.RoomID, room.Snapshot())
}

func handleStart(reg *Registry, hub *Hub, client *Client, data json.RawMessage) {
	var p StartPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[handleStart] bad payload from client %s: %v", client.ID, err)
		return
	}
	room, err := reg.GetRoom(p.RoomID)
	if err != nil {
		log.Printf("[handleStart] client %s: %v", client.ID, err)
		return
	}

	// A rejected start is logged and dropped; the other clients are never
	// told about the attempt.
	if err := room.MakeGameStart(p.Name); err != nil {
		log.Printf("[handleStart] client %s: %v", client.ID, err)
		return
	}
	hub.BroadcastSnapshot(p.RoomID, room.Snapshot())
}

func handleSend(reg *Registry, hub *Hub, client *Client, data json.RawMessage) {
	var p SendPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[handleSend] bad payload from client %s: %v", client.ID, err)
		return
	}
	if !client.InRoom(p.RoomID) {
		log.Printf("[handleSend] client %s not subscribed to room %s, dropping", client.ID, p.RoomID)
		return
	}
	room, err := reg.GetRoom(p.RoomID)
	if err != nil {
		log.Printf("[handleSend] client %s: %v", client.ID, err)
		return
	}

	room.ModifyTyped(p.Payload.Name, p.Payload.Typed)
	hub.BroadcastSnapshot(p.RoomID, room.Snapshot())
}

func handleLeave(reg *Registry, hub *Hub, client *Client, data json.RawMessage) {
	var p LeavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[handleLeave] bad payload from client %s: %v", client.ID, err)
		return
	}
	hub.Unsubscribe(p.RoomID, client)

	room, err := reg.GetRoom(p.RoomID)
	if err != nil {
		log.Printf("[handleLeave] client %s: %v", client.ID, err)
		return
	}
	room.DeletePlayer(p.Name)
	hub.BroadcastSnapshot(p.RoomID, room.Snapshot())
}
