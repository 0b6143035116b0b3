package node_test

import (
	"strings"
	"vehicle-dashboard/internal/infra/node"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Node", func() {
	ginkgo.Context("GetNodeInfo", func() {
		ginkgo.It("should return node information with all fields", func() {
			nodeInfo := node.GetNodeInfo()

			gomega.Expect(nodeInfo).ToNot(gomega.BeNil())
			gomega.Expect(nodeInfo.ID).ToNot(gomega.BeEmpty())
			gomega.Expect(nodeInfo.Hostname).ToNot(gomega.BeEmpty())
			gomega.Expect(nodeInfo.Version).To(gomega.Equal(node.Version))
			gomega.Expect(nodeInfo.CommitHash).To(gomega.Equal(node.CommitHash))
		})

		ginkgo.It("should keep the same id for the lifetime of the process", func() {
			gomega.Expect(node.GetNodeInfo().ID).To(gomega.Equal(node.GetNodeInfo().ID))
		})
	})

	ginkgo.Context("ClientID", func() {
		ginkgo.It("should prefix a short node id", func() {
			clientID := node.GetNodeInfo().ClientID("vehicle-dashboard")

			gomega.Expect(clientID).To(gomega.HavePrefix("vehicle-dashboard-"))
			gomega.Expect(strings.TrimPrefix(clientID, "vehicle-dashboard-")).To(gomega.HaveLen(8))
		})
	})
})
