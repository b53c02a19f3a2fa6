package blargg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/depechec0de/yagabor/yagabor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const romDir = "../../test-roms/game-boy-test-roms/blargg/cpu_instrs/individual"

type blarggTestCase struct {
	Name      string
	MaxFrames int
}

// The cpu_instrs ROMs print their result over the link port.
var blarggTests = []blarggTestCase{
	{"01-special", 500},
	{"02-interrupts", 500},
	{"03-op sp,hl", 500},
	{"04-op r,imm", 500},
	{"05-op rp", 500},
	{"06-ld r,r", 500},
	{"07-jr,jp,call,ret,rst", 500},
	{"08-misc instrs", 500},
	{"09-op r,r", 1000},
	{"10-bit ops", 1000},
	{"11-op a,(hl)", 1500},
}

func runBlarggTest(t *testing.T, tc blarggTestCase) {
	romPath := filepath.Join(romDir, tc.Name+".gb")
	if _, err := os.Stat(romPath); os.IsNotExist(err) {
		t.Skipf("ROM file not found: %s", romPath)
	}

	emu, err := yagabor.NewWithFile(romPath, yagabor.Config{})
	require.NoError(t, err)

	for frame := 0; frame < tc.MaxFrames; frame++ {
		require.NoError(t, emu.RunUntilFrame(), "frame %d", frame)

		out := emu.SerialOutput()
		if strings.Contains(out, "Passed") {
			t.Logf("%s passed after %d frames", tc.Name, frame+1)
			return
		}
		if strings.Contains(out, "Failed") {
			break
		}
	}

	assert.Fail(t, "test ROM did not pass", "serial output:\n%s", emu.SerialOutput())
}

func TestBlarggSuite(t *testing.T) {
	for _, tc := range blarggTests {
		t.Run(tc.Name, func(t *testing.T) {
			runBlarggTest(t, tc)
		})
	}
}
