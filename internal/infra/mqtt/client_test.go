package mqtt

import (
	"errors"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("MQTT Client", func() {
	var (
		fake   *fakePahoClient
		client *SimpleClient
	)

	ginkgo.BeforeEach(func() {
		fake = newFakePahoClient()
		client = newSimpleClient(50 * time.Millisecond)
		client.client = fake
	})

	ginkgo.Context("Subscribe", func() {
		ginkgo.When("the broker accepts the subscription", func() {
			ginkgo.It("should route messages to the callback", func() {
				received := make(chan string, 1)
				err := client.Subscribe("dashboard/vehicles/+/state", 1, func(_ Client, msg Message) {
					received <- string(msg.Payload())
				})
				gomega.Expect(err).NotTo(gomega.HaveOccurred())

				fake.deliver("dashboard/vehicles/+/state", fakeMessage{topic: "dashboard/vehicles/VIN1/state", payload: []byte(`{}`)})

				gomega.Eventually(received).Should(gomega.Receive(gomega.Equal(`{}`)))
			})
		})

		ginkgo.When("the broker rejects the subscription", func() {
			ginkgo.It("should not remember it for reconnects", func() {
				fake.subscribeErr = errors.New("not authorized")

				err := client.Subscribe("dashboard/vehicles/+/state", 1, func(Client, Message) {})
				gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("not authorized")))

				fake.subscribeErr = nil
				client.resubscribeAll(fake)
				gomega.Expect(fake.subscribeCalls()).To(gomega.Equal(1))
			})
		})

		ginkgo.When("the broker never answers", func() {
			ginkgo.It("should time out", func() {
				fake.hang = true

				err := client.Subscribe("topic", 0, func(Client, Message) {})
				gomega.Expect(err).To(gomega.MatchError(ErrOperationTimeout))
			})
		})
	})

	ginkgo.Context("Reconnect", func() {
		ginkgo.It("should restore every subscription", func() {
			gomega.Expect(client.Subscribe("a", 0, func(Client, Message) {})).To(gomega.Succeed())
			gomega.Expect(client.Subscribe("b", 1, func(Client, Message) {})).To(gomega.Succeed())

			client.resubscribeAll(fake)

			gomega.Expect(fake.subscribeCalls()).To(gomega.Equal(4))
		})

		ginkgo.It("should forget subscriptions after Unsubscribe", func() {
			gomega.Expect(client.Subscribe("a", 0, func(Client, Message) {})).To(gomega.Succeed())
			gomega.Expect(client.Unsubscribe("a")).To(gomega.Succeed())

			client.resubscribeAll(fake)

			gomega.Expect(fake.subscribeCalls()).To(gomega.Equal(1))
		})
	})

	ginkgo.Context("Publish", func() {
		ginkgo.It("should publish the JSON payload", func() {
			err := client.Publish("dashboard/commands", map[string]string{"command": "WAKE_VEHICLE"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(fake.published).To(gomega.HaveKeyWithValue("dashboard/commands", []byte(`{"command":"WAKE_VEHICLE"}`)))
		})

		ginkgo.It("should reject values that cannot be encoded", func() {
			err := client.Publish("dashboard/commands", make(chan int))
			gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("marshaling message")))
		})
	})

	ginkgo.Context("connectWithRetries", func() {
		ginkgo.It("should retry until the broker accepts", func() {
			fake.connectFailures = 2

			err := connectWithRetries(fake, SimpleClientOpts{
				Broker:         "tcp://localhost:1883",
				ConnectTimeout: 50 * time.Millisecond,
				ConnectRetries: 3,
				RetryDelay:     time.Millisecond,
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("should give up after the configured attempts", func() {
			fake.connectFailures = 5

			err := connectWithRetries(fake, SimpleClientOpts{
				Broker:         "tcp://localhost:1883",
				ConnectTimeout: 50 * time.Millisecond,
				ConnectRetries: 2,
				RetryDelay:     time.Millisecond,
			})
			gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("after 2 attempts")))
		})
	})

	ginkgo.Context("Disconnect", func() {
		ginkgo.It("should disconnect and drop subscriptions", func() {
			gomega.Expect(client.Subscribe("a", 0, func(Client, Message) {})).To(gomega.Succeed())

			client.Disconnect()

			gomega.Expect(fake.disconnected).To(gomega.BeTrue())
			client.resubscribeAll(fake)
			gomega.Expect(fake.subscribeCalls()).To(gomega.Equal(1))
		})
	})
})

type fakeToken struct {
	err  error
	hang bool
}

func (t fakeToken) Wait() bool { return !t.hang }

func (t fakeToken) WaitTimeout(timeout time.Duration) bool {
	if t.hang {
		time.Sleep(timeout)
		return false
	}
	return true
}

func (t fakeToken) Done() <-chan struct{} {
	done := make(chan struct{})
	if !t.hang {
		close(done)
	}
	return done
}

func (t fakeToken) Error() error { return t.err }

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type fakePahoClient struct {
	mu              sync.Mutex
	handlers        map[string]paho.MessageHandler
	subscribes      int
	subscribeErr    error
	hang            bool
	connectFailures int
	published       map[string][]byte
	disconnected    bool
}

func newFakePahoClient() *fakePahoClient {
	return &fakePahoClient{
		handlers:  make(map[string]paho.MessageHandler),
		published: make(map[string][]byte),
	}
}

func (f *fakePahoClient) Connect() paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectFailures > 0 {
		f.connectFailures--
		return fakeToken{err: errors.New("connection refused")}
	}
	return fakeToken{}
}

func (f *fakePahoClient) Subscribe(topic string, _ byte, callback paho.MessageHandler) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes++
	if f.hang {
		return fakeToken{hang: true}
	}
	if f.subscribeErr != nil {
		return fakeToken{err: f.subscribeErr}
	}
	f.handlers[topic] = callback
	return fakeToken{}
}

func (f *fakePahoClient) Unsubscribe(topics ...string) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, topic := range topics {
		delete(f.handlers, topic)
	}
	return fakeToken{}
}

func (f *fakePahoClient) Publish(topic string, _ byte, _ bool, payload any) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[topic] = payload.([]byte)
	return fakeToken{}
}

func (f *fakePahoClient) Disconnect(uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
}

func (f *fakePahoClient) subscribeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes
}

func (f *fakePahoClient) deliver(subscription string, msg paho.Message) {
	f.mu.Lock()
	handler := f.handlers[subscription]
	f.mu.Unlock()
	handler(nil, msg)
}
