package display

import (
	"image"
	"strings"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/gps_clock/internal/tz"
)

func TestGlyphPatterns(t *testing.T) {
	p := GlyphPatterns()
	// Code 0 is top bar plus left stroke.
	want := [8]byte{0x1F, 0x1F, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18}
	if p[0] != want {
		t.Errorf("glyph 0 = %x, want %x", p[0], want)
	}
	// Code 4 is the right stroke alone.
	for y, row := range p[4] {
		if row != 0x03 {
			t.Errorf("glyph 4 row %d = %#x, want 0x03", y, row)
		}
	}
	for code := range p {
		for y, row := range p[code] {
			if row&^0x1F != 0 {
				t.Errorf("glyph %d row %d uses more than 5 columns: %#x", code, y, row)
			}
		}
	}
}

func TestBigDigitsRejectsOutOfRange(t *testing.T) {
	b := NewBuffer()
	if err := BigDigits(b, 100, 1, 0); err == nil {
		t.Error("expected error for 100")
	}
	if err := BigDigit(b, -1, 1, 0); err == nil {
		t.Error("expected error for -1")
	}
}

func TestBufferClipsAndRejects(t *testing.T) {
	b := NewBuffer()
	if err := b.Print(0, 18, "abcd"); err != nil {
		t.Fatal(err)
	}
	if row := b.Row(0); !strings.HasSuffix(row, "ab") || len(row) != Cols {
		t.Errorf("expected clipped row, got %q", row)
	}
	if err := b.Print(4, 0, "x"); err == nil {
		t.Error("expected error for row 4")
	}
	b.Clear()
	if row := b.Row(0); row != strings.Repeat(" ", Cols) {
		t.Errorf("expected blank row after clear, got %q", row)
	}
}

func wednesday() tz.Local {
	return tz.Local{
		CalendarTime: tz.CalendarTime{Year: 2025, Month: 1, Day: 1, Hour: 12, Minute: 34, Second: 56},
		Weekday:      tz.Wednesday,
		Abbrev:       "EET",
		Offset:       120,
	}
}

func TestScreenDrawClockLayout(t *testing.T) {
	b := NewBuffer()
	s := NewScreen(b)
	if err := s.DrawClock(wednesday(), 7); err != nil {
		t.Fatalf("DrawClock: %v", err)
	}

	if got := b.Row(0); got != "Satellites count: 07" {
		t.Errorf("row 0 = %q", got)
	}
	if got := b.Row(3); got != "Wednesday 01.01.2025" {
		t.Errorf("row 3 = %q", got)
	}
	top := "   " + " \x04" + "\x05\x06" + " " + "\x05\x06" + "\x02\x03" + " " + "\x07\x05" + "\x07\x05" + "   "
	bottom := "   " + " \x04" + "\x02_" + " " + "_\x03" + " \x04" + " " + "_\x03" + "\x02\x03" + "   "
	if got := b.Row(1); got != top {
		t.Errorf("row 1 = %q, want %q", got, top)
	}
	if got := b.Row(2); got != bottom {
		t.Errorf("row 2 = %q, want %q", got, bottom)
	}
}

func TestScreenDivider(t *testing.T) {
	b := NewBuffer()
	s := NewScreen(b)
	s.DrawDivider(true)
	for _, row := range []int{1, 2} {
		r := b.Row(row)
		if r[7] != 'o' || r[12] != 'o' {
			t.Errorf("row %d: expected dividers, got %q", row, r)
		}
	}
	s.DrawDivider(false)
	if r := b.Row(1); r[7] != ' ' || r[12] != ' ' {
		t.Errorf("expected hidden dividers, got %q", r)
	}
}

func TestScreenStartupMessages(t *testing.T) {
	b := NewBuffer()
	s := NewScreen(b)

	s.Starting()
	if got := b.Row(0); got != "  Starting GPS...   " {
		t.Errorf("row 0 = %q", got)
	}
	s.CheckingRTC()
	if got := b.Row(0); got != "  Checking RTC...   " {
		t.Errorf("row 0 = %q", got)
	}
	s.WaitingForSatellites()
	s.AcquireStatus(3)
	want := []string{"  Time is not set.  ", "    Waiting for     ", "    satellites!     ", "Satellites count: 03"}
	for row, w := range want {
		if got := b.Row(row); got != w {
			t.Errorf("row %d = %q, want %q", row, got, w)
		}
	}
}

func TestBufferStringMapsGlyphs(t *testing.T) {
	b := NewBuffer()
	BigDigit(b, 0, 0, 0)
	lines := strings.Split(b.String(), "\n")
	if len(lines) != Rows {
		t.Fatalf("expected %d lines, got %d", Rows, len(lines))
	}
	if !strings.HasPrefix(lines[0], "┌┐") || !strings.HasPrefix(lines[1], "└┘") {
		t.Errorf("unexpected rendering:\n%s", b.String())
	}
}

// strobePin is an enable line that latches RS and D4-D7 on each falling edge.
type strobePin struct {
	gpiotest.Pin
	rs      *gpiotest.Pin
	data    [4]*gpiotest.Pin
	nibbles []latched
}

type latched struct {
	rs bool
	v  byte
}

func (s *strobePin) Out(l gpio.Level) error {
	if s.Read() == gpio.High && l == gpio.Low {
		var v byte
		for i, p := range s.data {
			if p.Read() == gpio.High {
				v |= 1 << i
			}
		}
		s.nibbles = append(s.nibbles, latched{rs: s.rs.Read() == gpio.High, v: v})
	}
	return s.Pin.Out(l)
}

// bytes pairs the latched nibbles after the first skip into bytes.
func (s *strobePin) bytes(skip int) []latched {
	var out []latched
	n := s.nibbles[skip:]
	for i := 0; i+1 < len(n); i += 2 {
		out = append(out, latched{rs: n[i].rs, v: n[i].v<<4 | n[i+1].v})
	}
	return out
}

func newTestLCD(t *testing.T) (*HD44780, *strobePin) {
	t.Helper()
	rs := &gpiotest.Pin{N: "RS"}
	var data [4]*gpiotest.Pin
	var outs [4]gpio.PinOut
	for i := range data {
		data[i] = &gpiotest.Pin{N: "D"}
		outs[i] = data[i]
	}
	en := &strobePin{Pin: gpiotest.Pin{N: "EN"}, rs: rs, data: data}
	d, err := newHD44780(rs, en, outs, func(time.Duration) {})
	if err != nil {
		t.Fatalf("newHD44780: %v", err)
	}
	return d, en
}

func TestHD44780InitSequence(t *testing.T) {
	_, en := newTestLCD(t)

	if len(en.nibbles) < 4 {
		t.Fatalf("expected reset nibbles, got %d", len(en.nibbles))
	}
	for i, want := range []byte{0x3, 0x3, 0x3, 0x2} {
		if en.nibbles[i].v != want || en.nibbles[i].rs {
			t.Errorf("reset nibble %d = %+v, want command %#x", i, en.nibbles[i], want)
		}
	}

	b := en.bytes(4)
	if len(b) != 3+1+64+1 {
		t.Fatalf("expected 69 bytes after reset, got %d", len(b))
	}
	for i, want := range []byte{cmdFunctionSet, cmdDisplayOn, cmdEntryMode, cmdSetCGRAM} {
		if b[i].rs || b[i].v != want {
			t.Errorf("command %d = %+v, want %#x", i, b[i], want)
		}
	}
	patterns := GlyphPatterns()
	for i := 0; i < 64; i++ {
		got := b[4+i]
		if !got.rs || got.v != patterns[i/8][i%8] {
			t.Errorf("cgram byte %d = %+v, want data %#x", i, got, patterns[i/8][i%8])
		}
	}
	if last := b[len(b)-1]; last.rs || last.v != cmdClear {
		t.Errorf("expected final clear, got %+v", last)
	}
}

func TestHD44780PrintAddressesRows(t *testing.T) {
	d, en := newTestLCD(t)
	start := len(en.nibbles)

	if err := d.Print(1, 3, "ab"); err != nil {
		t.Fatal(err)
	}
	b := en.bytes(start)
	want := []latched{{false, cmdSetDDRAM | 0x43}, {true, 'a'}, {true, 'b'}}
	if len(b) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(b))
	}
	for i := range want {
		if b[i] != want[i] {
			t.Errorf("byte %d = %+v, want %+v", i, b[i], want[i])
		}
	}

	start = len(en.nibbles)
	d.Print(1, 3, "ab")
	if len(en.nibbles) != start {
		t.Error("unchanged text should not be resent")
	}

	start = len(en.nibbles)
	d.Print(3, 19, "xyz")
	b = en.bytes(start)
	if len(b) != 2 || b[0].v != cmdSetDDRAM|(0x54+19) || b[1].v != 'x' {
		t.Errorf("expected clipped write on row 3, got %+v", b)
	}
}

type fakePanel struct {
	draws int
	last  image.Image
}

func (p *fakePanel) Bounds() image.Rectangle { return image.Rect(0, 0, 128, 64) }

func (p *fakePanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	p.draws++
	p.last = src
	return nil
}

func TestOLEDRendersCells(t *testing.T) {
	p := &fakePanel{}
	o := newOLED(p)
	s := NewScreen(o)

	if err := s.DrawClock(wednesday(), 9); err != nil {
		t.Fatal(err)
	}
	if p.draws != 1 {
		t.Fatalf("expected one frame, got %d", p.draws)
	}

	// Glyph 5 (top and bottom bars) at row 1, col 5: the tens of the hour is 1,
	// its ones digit 2 starts with glyph 5.
	x0, y0 := 5*cellW, 1*cellH
	if o.img.BitAt(x0+2, y0) != image1bit.On {
		t.Error("expected top bar pixel on")
	}
	if o.img.BitAt(x0+2, y0+14) != image1bit.On {
		t.Error("expected bottom bar pixel on")
	}
	if o.img.BitAt(x0+2, y0+8) != image1bit.Off {
		t.Error("expected hollow middle")
	}

	lit := false
	for y := 0; y < cellH; y++ {
		for x := 0; x < cellW; x++ {
			if o.img.BitAt(x, y) == image1bit.On {
				lit = true
			}
		}
	}
	if !lit {
		t.Error("expected text pixels in cell (0,0)")
	}

	if err := o.Flush(); err != nil {
		t.Fatal(err)
	}
	if p.draws != 1 {
		t.Error("unchanged frame should not be redrawn")
	}
}

func TestConsoleFramesOnChange(t *testing.T) {
	var out strings.Builder
	c := NewConsole(&out)
	c.ANSI = false
	s := NewScreen(c)

	s.Starting()
	frame := out.String()
	lines := strings.Split(strings.TrimSuffix(frame, "\n"), "\n")
	if len(lines) != Rows+2 {
		t.Fatalf("expected %d framed lines, got %d:\n%s", Rows+2, len(lines), frame)
	}
	if lines[1] != "|  Starting GPS...   |" {
		t.Errorf("unexpected first row %q", lines[1])
	}

	c.Flush()
	if out.String() != frame {
		t.Error("unchanged buffer should not repaint")
	}
}
