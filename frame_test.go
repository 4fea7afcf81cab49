package aw20216s

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lastBurst returns the payload of the last transaction, checking it is a
// full PWM page burst from address 0.
func lastBurst(t *testing.T, chip *fakeChip, page byte) []byte {
	t.Helper()
	require.NotEmpty(t, chip.frames)
	f := chip.frames[len(chip.frames)-1]
	require.Len(t, f, 2+216)
	require.Equal(t, command(page, false), f[0])
	require.Equal(t, byte(0x00), f[1])
	return f[2:]
}

func TestShowTwoByTwo(t *testing.T) {
	d, chip := newTestDev(t, &Opts{Rows: 2, Cols: 2})

	require.NoError(t, d.SetPixel(0, 0, 255, 0, 0))
	require.NoError(t, d.SetPixel(1, 1, 0, 255, 0))
	assert.Empty(t, chip.frames, "buffered SetPixel must not touch the bus")
	require.NoError(t, d.Show())

	want := make([]byte, 216)
	want[0] = 255
	want[18+4] = 255
	assert.Equal(t, want, lastBurst(t, chip, PagePWM))
	assert.Len(t, chip.frames, 1)
}

func TestSetPixelOffsets(t *testing.T) {
	d, chip := newTestDev(t, nil)

	for y := 0; y < 12; y++ {
		for x := 0; x < 6; x++ {
			require.NoError(t, d.Clear())
			require.NoError(t, d.SetPixel(x, y, 11, 22, 33))
			require.NoError(t, d.Show())

			got := lastBurst(t, chip, PagePWM)
			base := y*18 + x*3
			for i, v := range got {
				switch i - base {
				case 0:
					assert.Equal(t, byte(11), v)
				case 1:
					assert.Equal(t, byte(22), v)
				case 2:
					assert.Equal(t, byte(33), v)
				default:
					if v != 0 {
						t.Fatalf("(%d, %d): byte %d = %d, want 0", x, y, i, v)
					}
				}
			}
		}
	}
}

func TestSetPixelOutOfRange(t *testing.T) {
	d, chip := newTestDev(t, &Opts{Rows: 2, Cols: 2})
	require.NoError(t, d.Fill(1, 2, 3))
	before := append([]byte(nil), d.fb.Pix...)

	for _, p := range [][2]int{{2, 0}, {0, 2}, {-1, 0}, {0, -1}, {5, 11}, {6, 12}, {100, 100}} {
		require.NoError(t, d.SetPixel(p[0], p[1], 255, 255, 255))
	}
	assert.Equal(t, before, d.fb.Pix)
	assert.Empty(t, chip.frames)
}

func TestClearShow(t *testing.T) {
	d, chip := newTestDev(t, nil)
	require.NoError(t, d.Fill(9, 9, 9))
	require.NoError(t, d.Show())
	require.NoError(t, d.Clear())
	require.NoError(t, d.Show())

	assert.Equal(t, make([]byte, 216), lastBurst(t, chip, PagePWM))
}

func TestFill(t *testing.T) {
	d, chip := newTestDev(t, &Opts{Rows: 2, Cols: 2})
	require.NoError(t, d.Fill(10, 20, 30))
	assert.Empty(t, chip.frames)

	for i := 0; i < 216; i += 3 {
		require.Equal(t, []byte{10, 20, 30}, d.fb.Pix[i:i+3], "slot %d", i/3)
	}
	assert.Equal(t, []byte{10, 20, 30}, d.fb.Pix[213:216])

	r, g, b := d.Pixel(1, 1)
	assert.Equal(t, []byte{10, 20, 30}, []byte{r, g, b})
	r, g, b = d.Pixel(2, 2)
	assert.Equal(t, []byte{0, 0, 0}, []byte{r, g, b}, "outside the geometry")
}

func TestImmediateMode(t *testing.T) {
	d, chip := newTestDev(t, &Opts{Rows: 2, Cols: 2, Mode: Immediate})
	assert.Equal(t, Immediate, d.Mode())

	require.NoError(t, d.SetPixel(1, 1, 7, 8, 9))
	assert.Equal(t, [][]byte{
		{0xA2, 21, 7},
		{0xA2, 22, 8},
		{0xA2, 23, 9},
	}, chip.frames)
	assert.Equal(t, []byte{7, 8, 9}, chip.regs[PagePWM][21:24])

	// Out of range is still a no-op.
	require.NoError(t, d.SetPixel(2, 2, 1, 1, 1))
	assert.Len(t, chip.frames, 3)

	// Fill and Clear go out as one burst each.
	require.NoError(t, d.Fill(1, 2, 3))
	assert.Len(t, chip.frames, 4)
	assert.Equal(t, byte(3), chip.regs[PagePWM][215])
	require.NoError(t, d.Clear())
	assert.Equal(t, make([]byte, 216), lastBurst(t, chip, PagePWM))

	require.NoError(t, d.Halt())
	assert.ErrorIs(t, d.SetPixel(0, 0, 1, 1, 1), ErrHalted)
	r, g, b := d.Pixel(0, 0)
	assert.Equal(t, []byte{0, 0, 0}, []byte{r, g, b}, "rejected pixel must not reach the framebuffer")

	assert.ErrorIs(t, d.Fill(9, 9, 9), ErrHalted)
	assert.Equal(t, make([]byte, 216), d.fb.Pix, "rejected fill must not reach the framebuffer")
}

func TestImmediateClearHalted(t *testing.T) {
	d, _ := newTestDev(t, &Opts{Rows: 2, Cols: 2, Mode: Immediate})
	require.NoError(t, d.Fill(4, 5, 6))
	require.NoError(t, d.Halt())

	assert.ErrorIs(t, d.Clear(), ErrHalted)
	r, g, b := d.Pixel(1, 0)
	assert.Equal(t, []byte{4, 5, 6}, []byte{r, g, b})
}

func TestBufferedFillHalted(t *testing.T) {
	d, _ := newTestDev(t, nil)
	require.NoError(t, d.Halt())

	// Buffered framebuffer changes stay local and keep working.
	require.NoError(t, d.Fill(1, 2, 3))
	require.NoError(t, d.Clear())
}

func TestBufferedModeString(t *testing.T) {
	assert.Equal(t, "Buffered", Buffered.String())
	assert.Equal(t, "Immediate", Immediate.String())
	assert.Equal(t, "WriteMode(?)", WriteMode(5).String())
}

func TestSetScaling(t *testing.T) {
	d, chip := newTestDev(t, nil)
	require.NoError(t, d.Fill(1, 1, 1))

	require.NoError(t, d.SetScaling(0x40, 0x80, 0xC0))
	sl := lastBurst(t, chip, PageScaling)
	for i := 0; i < 216; i += 3 {
		require.Equal(t, []byte{0x40, 0x80, 0xC0}, sl[i:i+3], "slot %d", i/3)
	}
	assert.Len(t, chip.frames, 1)
	assert.Equal(t, byte(0xC0), chip.regs[PageScaling][215])

	// The framebuffer is not affected.
	assert.Equal(t, byte(1), d.fb.Pix[0])
}
