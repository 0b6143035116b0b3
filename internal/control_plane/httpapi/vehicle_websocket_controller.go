package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"vehicle-dashboard/internal/control_plane/httpapi/internal"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/async"
	"vehicle-dashboard/internal/infra/httpserver"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"github.com/gorilla/websocket"
)

const (
	_writeWait    = 10 * time.Second
	_pongWait     = 60 * time.Second
	_pingInterval = 54 * time.Second
	_readLimit    = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type vehicleClient struct {
	conn      *websocket.Conn
	vehicleID domain.VehicleID
	writeMu   sync.Mutex
}

func (c *vehicleClient) write(message internal.VehicleMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(_writeWait))
	return c.conn.WriteJSON(message)
}

func (c *vehicleClient) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(_writeWait))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// VehicleWebSocketController streams vehicle state and command state changes
// of one vehicle to each connected UI client.
type VehicleWebSocketController struct {
	broker     async.InternalBroker
	states     usecases.VehicleStateService
	stateSub   async.Subscription
	commandSub async.Subscription
	clients    map[*websocket.Conn]*vehicleClient
	clientsMux sync.RWMutex
	register   chan *vehicleClient
	unregister chan *websocket.Conn
	ctx        context.Context
	cancel     context.CancelFunc
	stopped    chan struct{}
}

func NewVehicleWebSocketController(broker async.InternalBroker, states usecases.VehicleStateService) (*VehicleWebSocketController, error) {
	stateSub, err := broker.Subscribe(usecases.TopicVehicleState)
	if err != nil {
		return nil, err
	}
	commandSub, err := broker.Subscribe(usecases.TopicCommandState)
	if err != nil {
		_ = broker.Unsubscribe(usecases.TopicVehicleState, stateSub)
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	wsc := &VehicleWebSocketController{
		broker:     broker,
		states:     states,
		stateSub:   stateSub,
		commandSub: commandSub,
		clients:    make(map[*websocket.Conn]*vehicleClient),
		register:   make(chan *vehicleClient),
		unregister: make(chan *websocket.Conn),
		ctx:        ctx,
		cancel:     cancel,
		stopped:    make(chan struct{}),
	}

	go wsc.run()

	return wsc, nil
}

var _ httpserver.Controller = (*VehicleWebSocketController)(nil)

func (wsc *VehicleWebSocketController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /ws/vehicles/{vehicle_id}", wsc.handleWebSocket())
}

func (wsc *VehicleWebSocketController) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := strings.TrimSpace(r.PathValue("vehicle_id"))
		if vehicleID == "" {
			http.Error(w, "vehicle_id is required", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		slog.Info("vehicle websocket connection established",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("vehicle_id", vehicleID))

		client := &vehicleClient{
			conn:      conn,
			vehicleID: domain.VehicleID(vehicleID),
		}

		select {
		case wsc.register <- client:
		case <-wsc.ctx.Done():
			conn.Close()
			return
		}

		go wsc.handlePingPong(client)
		go wsc.handleClient(client)
	}
}

func (wsc *VehicleWebSocketController) handleClient(client *vehicleClient) {
	defer func() {
		select {
		case wsc.unregister <- client.conn:
		case <-wsc.ctx.Done():
		}
		client.conn.Close()
	}()

	client.conn.SetReadLimit(_readLimit)
	client.conn.SetReadDeadline(time.Now().Add(_pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(_pongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read error", slog.String("error", err.Error()))
			} else {
				slog.Debug("websocket connection closed", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (wsc *VehicleWebSocketController) handlePingPong(client *vehicleClient) {
	ticker := time.NewTicker(_pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-wsc.ctx.Done():
			return
		case <-ticker.C:
			if err := client.ping(); err != nil {
				return
			}
		}
	}
}

func (wsc *VehicleWebSocketController) run() {
	defer close(wsc.stopped)
	defer wsc.broker.Unsubscribe(usecases.TopicVehicleState, wsc.stateSub)
	defer wsc.broker.Unsubscribe(usecases.TopicCommandState, wsc.commandSub)

	for {
		select {
		case <-wsc.ctx.Done():
			return

		case client := <-wsc.register:
			wsc.clientsMux.Lock()
			wsc.clients[client.conn] = client
			total := len(wsc.clients)
			wsc.clientsMux.Unlock()
			slog.Info("vehicle websocket client registered",
				slog.String("vehicle_id", client.vehicleID.String()),
				slog.Int("total_clients", total))

			go wsc.sendCachedState(client)

		case conn := <-wsc.unregister:
			wsc.clientsMux.Lock()
			if client, ok := wsc.clients[conn]; ok {
				delete(wsc.clients, conn)
				slog.Info("vehicle websocket client unregistered",
					slog.String("vehicle_id", client.vehicleID.String()),
					slog.Int("total_clients", len(wsc.clients)))
			}
			wsc.clientsMux.Unlock()

		case msg, ok := <-wsc.stateSub.Receiver:
			if !ok {
				return
			}
			if snapshot, ok := msg.Value.(domain.VehicleStateSnapshot); ok {
				wsc.broadcast(snapshot.VehicleID, internal.VehicleMessage{
					Type:      internal.MessageTypeVehicleState,
					VehicleID: snapshot.VehicleID.String(),
					Timestamp: snapshot.ReceivedAt,
					Data:      snapshot,
				})
			}

		case msg, ok := <-wsc.commandSub.Receiver:
			if !ok {
				return
			}
			if handle, ok := msg.Value.(domain.CommandHandle); ok {
				wsc.broadcast(handle.VehicleID, internal.VehicleMessage{
					Type:      internal.MessageTypeCommandState,
					VehicleID: handle.VehicleID.String(),
					Timestamp: handle.UpdatedAt,
					Data:      handle,
				})
			}
		}
	}
}

func (wsc *VehicleWebSocketController) broadcast(vehicleID domain.VehicleID, message internal.VehicleMessage) {
	wsc.clientsMux.RLock()
	targets := make([]*vehicleClient, 0)
	for _, client := range wsc.clients {
		if client.vehicleID == vehicleID {
			targets = append(targets, client)
		}
	}
	wsc.clientsMux.RUnlock()

	failed := make([]*vehicleClient, 0)
	for _, client := range targets {
		if err := client.write(message); err != nil {
			slog.Error("failed to write to vehicle websocket client",
				slog.String("vehicle_id", vehicleID.String()),
				slog.String("error", err.Error()))
			failed = append(failed, client)
		}
	}

	if len(failed) > 0 {
		wsc.clientsMux.Lock()
		for _, client := range failed {
			delete(wsc.clients, client.conn)
			client.conn.Close()
		}
		wsc.clientsMux.Unlock()
	}
}

func (wsc *VehicleWebSocketController) sendCachedState(client *vehicleClient) {
	snapshot, ok := wsc.states.Get(wsc.ctx, client.vehicleID)
	if !ok {
		slog.Debug("no cached state for vehicle", slog.String("vehicle_id", client.vehicleID.String()))
		return
	}

	err := client.write(internal.VehicleMessage{
		Type:      internal.MessageTypeVehicleState,
		VehicleID: client.vehicleID.String(),
		Timestamp: snapshot.ReceivedAt,
		Data:      snapshot,
	})
	if err != nil {
		slog.Error("failed to send cached state to vehicle websocket client",
			slog.String("vehicle_id", client.vehicleID.String()),
			slog.String("error", err.Error()))
	}
}

func (wsc *VehicleWebSocketController) Shutdown() {
	slog.Info("shutting down vehicle websocket controller")
	wsc.cancel()
	<-wsc.stopped

	wsc.clientsMux.Lock()
	for conn := range wsc.clients {
		conn.Close()
	}
	wsc.clients = make(map[*websocket.Conn]*vehicleClient)
	wsc.clientsMux.Unlock()
}
