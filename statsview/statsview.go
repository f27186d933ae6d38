// Package statsview serves runtime statistics (heap, goroutines, GC) as live
// charts, useful when checking that the tick loop does not allocate.
package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"towersplit/logger"
)

const (
	Address = "localhost:18066"
	url     = "/debug/statsview"
)

// Launch starts the viewer in a new goroutine. The returned function stops it.
func Launch() (stop func()) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()
	go mgr.Start()

	logger.Logf("statsview", "stats server available at http://%s%s", Address, url)
	return mgr.Stop
}
