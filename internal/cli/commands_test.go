package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	out, err := runCommand(t,
		"eval",
		"--entry=0.40", "--target=0.60", "--stop=0.30",
		"--confidence=55", "--bankroll=10000",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Decimal odds:    2.5000")
	assert.Contains(t, out, "Position size:   $625.00")
	assert.Contains(t, out, "Max gain:        $312.50")
	assert.Contains(t, out, "Max loss:        $156.25")
	assert.Contains(t, out, "Risk/reward:     2.00")
}

func TestEvalCommandNegativeEdge(t *testing.T) {
	out, err := runCommand(t,
		"eval",
		"--entry=0.50", "--target=0.70", "--stop=0.40",
		"--confidence=40", "--bankroll=10000",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Position size:   $0.00")
	assert.Contains(t, out, "no edge")
}

func TestEvalCommandRejectsBadInputs(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{
			name: "Confidence out of range",
			args: []string{"eval", "--entry=0.4", "--target=0.6", "--stop=0.3", "--confidence=0"},
		},
		{
			name: "Entry out of range",
			args: []string{"eval", "--entry=1.4", "--target=0.6", "--stop=0.3", "--confidence=55"},
		},
		{
			name: "Unknown mode",
			args: []string{"eval", "--entry=0.4", "--target=0.6", "--stop=0.3", "--confidence=55", "--mode=double"},
		},
		{
			name: "Unknown direction",
			args: []string{"eval", "--entry=0.4", "--target=0.6", "--stop=0.3", "--confidence=55", "--direction=sideways"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCommand(t, tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestOddsCommand(t *testing.T) {
	out, err := runCommand(t, "odds", "0.40")
	require.NoError(t, err)

	assert.Contains(t, out, "Decimal odds:        2.5000")
	assert.Contains(t, out, "Implied probability: 40.00%")
}

func TestOddsCommandRejectsBadPrice(t *testing.T) {
	_, err := runCommand(t, "odds", "1.5")
	assert.Error(t, err)

	_, err = runCommand(t, "odds", "not-a-number")
	assert.Error(t, err)
}
