package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVulnerabilityType(t *testing.T) {
	vt, err := ParseVulnerabilityType("reflective_rce")
	require.NoError(t, err)
	assert.Equal(t, ReflectiveRCE, vt)

	vt, err = ParseVulnerabilityType("  Blind_RCE ")
	require.NoError(t, err)
	assert.Equal(t, BlindRCE, vt)

	_, err = ParseVulnerabilityType("xss")
	assert.ErrorContains(t, err, "unknown vulnerability type")

	_, err = ParseVulnerabilityType("")
	assert.Error(t, err)
}

func TestParseInterpretationEnvironment(t *testing.T) {
	env, err := ParseInterpretationEnvironment("linux_shell")
	require.NoError(t, err)
	assert.Equal(t, LinuxShell, env)

	env, err = ParseInterpretationEnvironment("ANY")
	require.NoError(t, err)
	assert.Equal(t, AnyInterpretation, env)

	_, err = ParseInterpretationEnvironment("powershell")
	assert.ErrorContains(t, err, "unknown interpretation environment")
}

func TestParseExecutionEnvironment(t *testing.T) {
	env, err := ParseExecutionEnvironment("exec_interpretation_environment")
	require.NoError(t, err)
	assert.Equal(t, ExecInterpretation, env)

	env, err = ParseExecutionEnvironment("exec_any")
	require.NoError(t, err)
	assert.Equal(t, ExecAny, env)

	_, err = ParseExecutionEnvironment("container")
	assert.ErrorContains(t, err, "unknown execution environment")
}

func TestWireNamesRoundTrip(t *testing.T) {
	for _, vt := range []VulnerabilityType{ReflectiveRCE, BlindRCE, SSRF} {
		parsed, err := ParseVulnerabilityType(vt.String())
		require.NoError(t, err)
		assert.Equal(t, vt, parsed)
	}
	for _, env := range []InterpretationEnvironment{LinuxShell, Java, AnyInterpretation} {
		parsed, err := ParseInterpretationEnvironment(env.String())
		require.NoError(t, err)
		assert.Equal(t, env, parsed)
	}
	for _, env := range []ExecutionEnvironment{ExecInterpretation, ExecAny} {
		parsed, err := ParseExecutionEnvironment(env.String())
		require.NoError(t, err)
		assert.Equal(t, env, parsed)
	}
}
