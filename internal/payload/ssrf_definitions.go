package payload

// ssrfDefinitions holds the built-in SSRF templates. Forged requests carry
// no output back, so every SSRF template needs the callback channel.
var ssrfDefinitions []Definition

func init() {
	ssrfDefinitions = []Definition{
		{
			Name:                      "any.callback-url",
			VulnerabilityTypes:        []VulnerabilityType{SSRF},
			InterpretationEnvironment: AnyInterpretation,
			ExecutionEnvironment:      ExecAny,
			RequiresCallback:          true,
			Template:                  `$TSUNAMI_PAYLOAD_TOKEN_URL`,
		},
	}
}
