package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := Out, Err
	Out, Err = &out, &errOut
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		Out, Err = prevOut, prevErr
		pterm.EnableStyling()
	})
	return &out, &errOut
}

func TestPrintMessages(t *testing.T) {
	out, errOut := capture(t)

	PrintSuccess("loaded %d mappings", 3)
	PrintWarning("careful")
	PrintInfo("note")
	PrintError("failed: %s", "boom")
	PrintKeyValue("mapping", "D1")

	s := out.String()
	assert.Contains(t, s, "✓ loaded 3 mappings")
	assert.Contains(t, s, "⚠ careful")
	assert.Contains(t, s, "ℹ note")
	assert.Contains(t, s, "mapping:")
	assert.Contains(t, s, " D1\n")
	assert.Contains(t, errOut.String(), "✗ failed: boom")
}

func TestPrintHeaderAndSection(t *testing.T) {
	out, _ := capture(t)
	PrintHeader("rowmap", "Validate Schema")
	PrintSection("Mappings")
	assert.Contains(t, out.String(), "rowmap")
	assert.Contains(t, out.String(), "Validate Schema")
	assert.Contains(t, out.String(), "Mappings")
}

func TestPrintTable(t *testing.T) {
	out, _ := capture(t)
	require.NoError(t, PrintTable([]string{"Mapping", "Results"}, [][]string{{"D1", "2"}}))
	assert.Contains(t, out.String(), "Mapping")
	assert.Contains(t, out.String(), "D1")
}

func TestRenderMarkdown(t *testing.T) {
	s, err := RenderMarkdown("# Orders\n\n* entity `Order`\n")
	require.NoError(t, err)
	assert.Contains(t, s, "Orders")
	assert.Contains(t, s, "Order")
}
