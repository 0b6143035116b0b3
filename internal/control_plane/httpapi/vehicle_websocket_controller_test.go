package httpapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"
	"vehicle-dashboard/internal/control_plane/httpapi"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/async"
	"vehicle-dashboard/internal/shared_kernel/domain"
	mockusecases "vehicle-dashboard/test/unit/doubles/control_plane/usecases"
	mockasync "vehicle-dashboard/test/unit/doubles/infra/async"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type wsMessage struct {
	Type      string         `json:"type"`
	VehicleID string         `json:"vehicle_id"`
	Data      map[string]any `json:"data"`
}

var _ = Describe("VehicleWebSocketController", func() {
	var (
		ctrl       *gomock.Controller
		states     *mockusecases.MockVehicleStateService
		broker     *async.LocalBroker
		controller *httpapi.VehicleWebSocketController
		server     *httptest.Server
		conn       *websocket.Conn
	)

	readMessage := func() wsMessage {
		var message wsMessage
		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		Expect(conn.ReadJSON(&message)).To(Succeed())
		return message
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		states = mockusecases.NewMockVehicleStateService(ctrl)
		broker = async.NewLocalBroker()

		var err error
		controller, err = httpapi.NewVehicleWebSocketController(broker, states)
		Expect(err).NotTo(HaveOccurred())

		router := http.NewServeMux()
		controller.AddRoutes(router)
		server = httptest.NewServer(router)

		states.EXPECT().Get(gomock.Any(), vehicleID).Return(domain.VehicleStateSnapshot{
			VehicleID: vehicleID,
			Signals: map[string]domain.Signal{
				domain.SignalBatteryLevel: {Value: 64.0},
			},
			Source:     domain.SnapshotSourcePull,
			ReceivedAt: time.Now(),
		}, true)

		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/vehicles/" + vehicleID.String()
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		conn.Close()
		controller.Shutdown()
		server.Close()
		broker.Stop()
		ctrl.Finish()
	})

	It("should send the cached state on connect", func() {
		message := readMessage()

		Expect(message.Type).To(Equal("vehicle_state"))
		Expect(message.VehicleID).To(Equal(vehicleID.String()))
	})

	It("should forward command transitions of the watched vehicle only", func() {
		readMessage()

		other, err := domain.NewCommandHandleBuilder().
			WithTrackingID("cmd-other").
			WithVehicleID("7SAYGDEE5PA000099").
			WithDescriptor(domain.CommandDescriptor{ID: "WAKE_VEHICLE"}).
			Build()
		Expect(err).NotTo(HaveOccurred())
		mine, err := domain.NewCommandHandleBuilder().
			WithTrackingID("cmd-mine").
			WithVehicleID(vehicleID).
			WithDescriptor(domain.CommandDescriptor{ID: "WAKE_VEHICLE"}).
			Build()
		Expect(err).NotTo(HaveOccurred())

		ctx := context.Background()
		Expect(broker.Publish(ctx, usecases.TopicCommandState, async.BrokerMessage{
			Event: usecases.EventCommandStateChanged,
			Value: other,
		})).To(Succeed())
		Expect(broker.Publish(ctx, usecases.TopicCommandState, async.BrokerMessage{
			Event: usecases.EventCommandStateChanged,
			Value: mine,
		})).To(Succeed())

		message := readMessage()
		Expect(message.Type).To(Equal("command_state"))
		Expect(message.Data["tracking_id"]).To(Equal("cmd-mine"))
	})

	It("should forward pushed vehicle state", func() {
		readMessage()

		Expect(broker.Publish(context.Background(), usecases.TopicVehicleState, async.BrokerMessage{
			Event: usecases.EventVehicleStateUpdated,
			Value: domain.VehicleStateSnapshot{
				VehicleID: vehicleID,
				Signals: map[string]domain.Signal{
					domain.SignalBatteryLevel: {Value: 63.0},
				},
				Source: domain.SnapshotSourcePush,
			},
		})).To(Succeed())

		message := readMessage()
		Expect(message.Type).To(Equal("vehicle_state"))
		Expect(message.Data["source"]).To(Equal("push"))
	})
})

var _ = Describe("VehicleWebSocketController subscriptions", func() {
	var (
		ctrl   *gomock.Controller
		broker *mockasync.MockInternalBroker
		states *mockusecases.MockVehicleStateService
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		broker = mockasync.NewMockInternalBroker(ctrl)
		states = mockusecases.NewMockVehicleStateService(ctrl)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	It("should fail when the state topic cannot be subscribed", func() {
		broker.EXPECT().Subscribe(usecases.TopicVehicleState).Return(async.Subscription{}, errors.New("broker stopped"))

		_, err := httpapi.NewVehicleWebSocketController(broker, states)

		Expect(err).To(MatchError("broker stopped"))
	})

	It("should release the state subscription when the command topic fails", func() {
		stateSub := async.Subscription{}
		gomock.InOrder(
			broker.EXPECT().Subscribe(usecases.TopicVehicleState).Return(stateSub, nil),
			broker.EXPECT().Subscribe(usecases.TopicCommandState).Return(async.Subscription{}, errors.New("broker stopped")),
			broker.EXPECT().Unsubscribe(usecases.TopicVehicleState, stateSub).Return(nil),
		)

		_, err := httpapi.NewVehicleWebSocketController(broker, states)

		Expect(err).To(HaveOccurred())
	})
})
