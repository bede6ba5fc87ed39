package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/stepkit/internal/config"
	"github.com/leapstack-labs/stepkit/internal/step"
	"github.com/leapstack-labs/stepkit/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('sample part'),'2;1');
FILE_NAME('sample.step','2025-04-14T15:30:00',(''),(''),'','','');
FILE_SCHEMA(('AUTOMOTIVE_DESIGN { 1 0 10303 214 1 1 1 1 }'));
ENDSEC;
DATA;
#1 = CARTESIAN_POINT('',(0.,0.,0.));
#2 = DIRECTION('',(0.,0.,1.));
#3 = AXIS2_PLACEMENT_3D('',#1,#2,$);
#4 = WIDGET_FRAME(#3);
ENDSEC;
END-ISO-10303-21;
`

// runCommand executes cmd with a test config and logger, capturing stdout.
func runCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	ctx := WithConfig(context.Background(), cfg)
	ctx = WithLogger(ctx, testutil.NewTestLogger(t))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func writeSample(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWriteCommand_NormalizesFile(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, "in.step", sampleFile)
	output := filepath.Join(dir, "out.step")

	stdout, err := runCommand(t, NewWriteCommand(), &config.Config{}, input, output)
	require.NoError(t, err)
	assert.Empty(t, stdout, "write prints nothing on success")

	g, err := step.DecodeFile(output)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())

	// Normalized output strips the optional whitespace around records.
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#1=CARTESIAN_POINT('',(0.,0.,0.));")
}

func TestWriteCommand_ReportsParsePosition(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, "bad.step", "HEADER;\nENDSEC;\nDATA;\n#1 = A('open);\nENDSEC;\n")

	_, err := runCommand(t, NewWriteCommand(), &config.Config{}, input, filepath.Join(dir, "out.step"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4:8")
	assert.NoFileExists(t, filepath.Join(dir, "out.step"), "no output on failure")
}

func TestWriteCommand_DanglingReferenceFails(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, "dangling.step", "HEADER;\nENDSEC;\nDATA;\n#1 = A(#99);\nENDSEC;\n")

	_, err := runCommand(t, NewWriteCommand(), &config.Config{}, input, filepath.Join(dir, "out.step"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#99")
}

func TestCheckCommand_MixedResults(t *testing.T) {
	dir := t.TempDir()
	good := writeSample(t, dir, "good.step", sampleFile)
	bad := writeSample(t, dir, "bad.step", "HEADER;\nENDSEC;\nDATA;\n#1 = A(#99);\nENDSEC;\n")

	stdout, err := runCommand(t, NewCheckCommand(), &config.Config{}, good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, stdout, "good.step: ok (4 entities)")
	assert.Contains(t, stdout, "bad.step: ")
	assert.Contains(t, stdout, "#99")
}

func TestCheckCommand_StrictTypesWarns(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, "sample.step", sampleFile)

	stdout, err := runCommand(t, NewCheckCommand(), &config.Config{StrictTypes: true}, input)
	require.NoError(t, err, "unknown types warn, they never fail")
	assert.Contains(t, stdout, "ok (4 entities)")
	assert.Contains(t, stdout, "warning: unknown entity type WIDGET_FRAME")
	assert.NotContains(t, stdout, "CARTESIAN_POINT\n", "known types are not warned about")
}

func TestCheckCommand_WithoutStrictTypesStaysQuiet(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, "sample.step", sampleFile)

	stdout, err := runCommand(t, NewCheckCommand(), &config.Config{}, input)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "warning")
}

func TestInfoCommand_PrintsHeaderAndCounts(t *testing.T) {
	dir := t.TempDir()
	input := writeSample(t, dir, "sample.step", sampleFile)

	stdout, err := runCommand(t, NewInfoCommand(), &config.Config{}, input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "4 entities")
	assert.Contains(t, stdout, "FILE_DESCRIPTION: 'sample part'")
	assert.Contains(t, stdout, "FILE_NAME: 'sample.step'")
	assert.Contains(t, stdout, "FILE_SCHEMA: 'AUTOMOTIVE_DESIGN")
	assert.Contains(t, stdout, "CARTESIAN_POINT")
	assert.Contains(t, stdout, "AXIS2_PLACEMENT_3D")
}

func TestInfoCommand_MissingFile(t *testing.T) {
	_, err := runCommand(t, NewInfoCommand(), &config.Config{}, filepath.Join(t.TempDir(), "nope.step"))
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	stdout, err := runCommand(t, NewVersionCommand("0.1.0"), &config.Config{})
	require.NoError(t, err)
	assert.Contains(t, stdout, "stepkit v0.1.0")
	assert.Contains(t, stdout, "ISO 10303-21")
}
