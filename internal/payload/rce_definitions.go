package payload

// rceDefinitions holds the built-in remote code execution templates.
// Callback templates make the tested system fetch the token URL; in-band
// templates make it print the framed token into its output.
var rceDefinitions []Definition

func init() {
	rceDefinitions = []Definition{
		{
			Name:                      "linux.curl-callback",
			VulnerabilityTypes:        []VulnerabilityType{ReflectiveRCE, BlindRCE},
			InterpretationEnvironment: LinuxShell,
			ExecutionEnvironment:      ExecInterpretation,
			RequiresCallback:          true,
			Template:                  `curl $TSUNAMI_PAYLOAD_TOKEN_URL`,
		},
		{
			Name:                      "linux.printf",
			VulnerabilityTypes:        []VulnerabilityType{ReflectiveRCE},
			InterpretationEnvironment: LinuxShell,
			ExecutionEnvironment:      ExecInterpretation,
			RequiresCallback:          false,
			Template:                  `printf %s%s%s TSUNAMI_PAYLOAD_START $TSUNAMI_PAYLOAD_TOKEN TSUNAMI_PAYLOAD_END`,
		},
		{
			Name:                      "java.scanner-exec-callback",
			VulnerabilityTypes:        []VulnerabilityType{ReflectiveRCE, BlindRCE},
			InterpretationEnvironment: Java,
			ExecutionEnvironment:      ExecInterpretation,
			RequiresCallback:          true,
			Template:                  `String.format("%s",new java.util.Scanner(java.lang.Runtime.getRuntime().exec(new String[]{"curl","$TSUNAMI_PAYLOAD_TOKEN_URL"}).getInputStream()).useDelimiter("\\A").next())`,
		},
		{
			Name:                      "java.string-format",
			VulnerabilityTypes:        []VulnerabilityType{ReflectiveRCE},
			InterpretationEnvironment: Java,
			ExecutionEnvironment:      ExecInterpretation,
			RequiresCallback:          false,
			Template:                  `String.format("%s%s%s","TSUNAMI_PAYLOAD_START","$TSUNAMI_PAYLOAD_TOKEN","TSUNAMI_PAYLOAD_END")`,
		},
	}
}
