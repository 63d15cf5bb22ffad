package cuberoll

import (
	"github.com/MaaXYZ/MaaCube/agent/go-service/config"
	maa "github.com/MaaXYZ/maa-framework-go/v4"
)

// Register registers all custom action components for cuberoll package
func Register(cfg config.Config) {
	stateMu.Lock()
	agentCfg = cfg
	stateMu.Unlock()

	maa.AgentServerRegisterCustomAction("CubeAutoRollInitAction", &CubeAutoRollInitAction{})
	maa.AgentServerRegisterCustomAction("CubeAutoRollStepAction", &CubeAutoRollStepAction{})
	maa.AgentServerRegisterCustomAction("CubeAutoRollSelectAction", &CubeAutoRollSelectAction{})
	maa.AgentServerRegisterCustomAction("CubeAutoRollStopAction", &CubeAutoRollStopAction{})
	maa.AgentServerRegisterCustomAction("CubeAutoRollFinishAction", &CubeAutoRollFinishAction{})
}

// Shutdown stops any active run and releases the session.
func Shutdown() {
	stateMu.Lock()
	s := session
	session = nil
	stateMu.Unlock()
	if s != nil {
		s.Close()
	}
}
