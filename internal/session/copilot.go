package session

// CopilotLabel is how a session's assistance level appears in figure
// titles and file names.
type CopilotLabel struct {
	On         bool
	Title      string
	FileSuffix string
}

// CopilotPolicy maps a copilot alpha onto a label. Figures produced by
// different tools use different policies; both are kept so existing file
// names stay stable.
type CopilotPolicy func(alpha float64) CopilotLabel

// CopilotOnWhenZero labels alpha == 0 as "copilot_ON" and everything else
// as "copilot_OFF". Only sessions with the copilot on get a file suffix.
// Used by the single-session trajectory figure.
func CopilotOnWhenZero(alpha float64) CopilotLabel {
	if alpha == 0.0 {
		return CopilotLabel{On: true, Title: "copilot_ON", FileSuffix: "_copilot_ON"}
	}
	return CopilotLabel{On: false, Title: "copilot_OFF", FileSuffix: ""}
}

// CopilotOnWhenZeroLegacy labels alpha == 0 as "copilot_ON" and leaves the
// title empty otherwise. The file suffix is always "_" + title, matching
// figures named "<session>_copilot_ON.pdf" and "<session>_.pdf".
func CopilotOnWhenZeroLegacy(alpha float64) CopilotLabel {
	if alpha == 0.0 {
		return CopilotLabel{On: true, Title: "copilot_ON", FileSuffix: "_copilot_ON"}
	}
	return CopilotLabel{On: false, Title: "", FileSuffix: "_"}
}

// CopilotPolicyByName returns a policy by its configuration name.
func CopilotPolicyByName(name string) (CopilotPolicy, bool) {
	switch name {
	case "", "on-when-zero":
		return CopilotOnWhenZero, true
	case "legacy":
		return CopilotOnWhenZeroLegacy, true
	default:
		return nil, false
	}
}
