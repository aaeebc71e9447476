package ui

import (
	"testing"

	"github.com/devicetree-tools/dtviz/internal/config"
)

func TestResetTreeWidgetsOnLoad(t *testing.T) {
	s := newLoadedState(t)
	a := New(nil, s, config.Default(), nil)

	snap := s.Snapshot()
	a.resetTreeWidgets(&snap)

	row := a.rowClickable("/soc")
	a.discloseClickable("/soc")
	prop := a.propClickable("status")

	// Same tree across frames: widgets stay stable so gestures work.
	a.resetTreeWidgets(&snap)
	if a.rowClickable("/soc") != row {
		t.Error("row widget replaced without a load")
	}
	if a.propClickable("status") != prop {
		t.Error("property widget replaced without a load")
	}

	s.SetTree(mustParseTree(t, sampleSource), "/tmp/other.dts")
	snap = s.Snapshot()
	a.resetTreeWidgets(&snap)

	if len(a.rowClicks) != 0 || len(a.discloseClicks) != 0 || len(a.propClicks) != 0 {
		t.Errorf("widget maps kept entries across load: rows=%d disclose=%d props=%d",
			len(a.rowClicks), len(a.discloseClicks), len(a.propClicks))
	}
	if a.rowClickable("/soc") == row {
		t.Error("stale row widget survived the load")
	}
}
