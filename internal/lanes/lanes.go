// Package lanes holds the execution machinery of the SIMD path: block width
// selection from CPU features and row-band fan-out.
package lanes

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"
)

// Block widths in pixels. A 128-bit register holds 16 bytes of one de-interleaved
// channel; 256-bit registers double that.
const (
	Width128 = 16
	Width256 = 32
)

var width = detectWidth()

func detectWidth() int {
	if cpu.X86.HasAVX2 {
		return Width256
	}
	return Width128
}

// Width returns the number of pixels processed per block by the SIMD path.
func Width() int { return width }

// Features lists the vector extensions detected on this CPU.
func Features() []string {
	var f []string
	add := func(has bool, name string) {
		if has {
			f = append(f, name)
		}
	}
	switch runtime.GOARCH {
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasASIMDHP, "asimdhp")
		add(cpu.ARM64.HasSVE, "sve")
		add(cpu.ARM64.HasSVE2, "sve2")
	case "arm":
		add(cpu.ARM.HasNEON, "neon")
	case "amd64", "386":
		add(cpu.X86.HasSSE2, "sse2")
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	}
	return f
}

// Bands splits rows [0,rows) into at most GOMAXPROCS contiguous bands and runs
// fn on each band concurrently, returning once every band is done.
// Bands never overlap so fn may write its rows without synchronization.
func Bands(rows int, fn func(y0, y1 int)) {
	n := runtime.GOMAXPROCS(0)
	if n > rows {
		n = rows
	}
	if n <= 1 {
		fn(0, rows)
		return
	}
	per := rows / n
	rem := rows % n
	var g errgroup.Group
	g.SetLimit(n)
	y0 := 0
	for t := 0; t < n; t++ {
		y1 := y0 + per
		if t < rem {
			y1++
		}
		start, end := y0, y1
		g.Go(func() error {
			fn(start, end)
			return nil
		})
		y0 = y1
	}
	g.Wait()
}
