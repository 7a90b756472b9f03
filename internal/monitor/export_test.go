package monitor

import "time"

func (m *PendingMonitor) SetClock(now func() time.Time) { m.now = now }
