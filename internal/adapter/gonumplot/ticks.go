package gonumplot

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// yearTicks places a minor tick on every year and a labelled major tick on
// every multiple of major.
type yearTicks struct {
	major int
}

func (t yearTicks) Ticks(lo, hi float64) []plot.Tick {
	var ticks []plot.Tick
	for y := int(math.Ceil(lo)); float64(y) <= hi; y++ {
		tick := plot.Tick{Value: float64(y)}
		if y%t.major == 0 {
			tick.Label = strconv.Itoa(y)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}
