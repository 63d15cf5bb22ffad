package cuberoll

import (
	"fmt"
	"strings"

	"github.com/MaaXYZ/MaaCube/agent/go-service/criteria"
	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	"github.com/bytedance/sonic"
)

const defaultLevel = 200

// selectionParam - custom_action_param of the init and select nodes:
// {"preset":"weapon_main","parts":"weapon","cube":"5062010","stat":"STR","level":200}
type selectionParam struct {
	Preset   string             `json:"preset"`
	Parts    string             `json:"parts"`
	Cube     string             `json:"cube"`
	Stat     string             `json:"stat"`
	Level    int                `json:"level"`
	Settings *criteria.Settings `json:"settings,omitempty"`
}

// parseSelection decodes an action param into a selection snapshot.
func parseSelection(raw string, defaultStat potential.Stat) (selectionParam, potential.Context, error) {
	var p selectionParam
	if strings.TrimSpace(raw) != "" {
		if err := sonic.UnmarshalString(raw, &p); err != nil {
			return p, potential.Context{}, fmt.Errorf("param parse: %w", err)
		}
	}

	sel := potential.Context{
		Parts:  potential.ParsePartsType(p.Parts),
		CubeID: strings.TrimSpace(p.Cube),
		Stat:   defaultStat,
		Level:  p.Level,
	}
	if sel.CubeID == "" {
		sel.CubeID = potential.CubeIDMain
	}
	if sel.Level <= 0 {
		sel.Level = defaultLevel
	}
	if p.Stat != "" {
		st, ok := potential.ParseStat(p.Stat)
		if !ok {
			return p, potential.Context{}, fmt.Errorf("unknown stat %q", p.Stat)
		}
		sel.Stat = st
	}
	return p, sel, nil
}
