package joint_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestJoint(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Joint Suite")
}
