package service

import (
	"io"
	"testing"
	"time"

	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

func newTestTracker() (*TargetTracker, *time.Time) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tracker := NewTargetTracker(DefaultTrackerConfig(), logger.NewWithWriter("error", io.Discard))
	tracker.now = func() time.Time { return now }
	return tracker, &now
}

func alive(cpu float64) ProcessSample {
	return ProcessSample{CPU: cpu, OK: true}
}

func noCompetitor() CompetitorSample {
	return CompetitorSample{}
}

func TestTargetTracker_AdoptResetsState(t *testing.T) {
	tracker, now := newTestTracker()

	tracker.Adopt(100)

	if !tracker.HasTarget() {
		t.Fatal("expected target to be held after Adopt")
	}
	target := tracker.Target()
	if target.PID() != 100 {
		t.Errorf("PID() = %d, want 100", target.PID())
	}
	if target.IdleStreak() != 0 {
		t.Errorf("IdleStreak() = %d, want 0", target.IdleStreak())
	}
	if !target.HeldSince().Equal(*now) {
		t.Errorf("HeldSince() = %v, want %v", target.HeldSince(), *now)
	}
}

func TestTargetTracker_ProcessGoneEvicts(t *testing.T) {
	tracker, _ := newTestTracker()
	tracker.Adopt(100)

	obs := tracker.Observe(ProcessSample{OK: false}, noCompetitor())

	if !obs.Evicted {
		t.Fatal("expected eviction when process sample is unavailable")
	}
	if len(obs.Reasons) != 1 || obs.Reasons[0] != ReasonProcessGone {
		t.Errorf("Reasons = %v, want [process_gone]", obs.Reasons)
	}
	if tracker.HasTarget() {
		t.Error("expected target to be released")
	}
}

// Четвертый подряд «сонный» замер вытесняет цель
func TestTargetTracker_SustainedIdleEvictsOnFourthTick(t *testing.T) {
	tracker, _ := newTestTracker()
	tracker.Adopt(100)

	for tick := 1; tick <= 3; tick++ {
		obs := tracker.Observe(alive(1.0), noCompetitor())
		if obs.Evicted {
			t.Fatalf("tick %d: unexpected eviction", tick)
		}
		if obs.IdleStreak != tick {
			t.Fatalf("tick %d: IdleStreak = %d, want %d", tick, obs.IdleStreak, tick)
		}
	}

	obs := tracker.Observe(alive(1.0), noCompetitor())
	if !obs.Evicted {
		t.Fatal("expected eviction on the 4th consecutive idle sample")
	}
	if len(obs.Reasons) != 1 || obs.Reasons[0] != ReasonSustainedIdle {
		t.Errorf("Reasons = %v, want [sustained_idle]", obs.Reasons)
	}
	if tracker.HasTarget() {
		t.Error("expected target to be released")
	}
}

// Три «сонных» замера и подъем — серия обнуляется, цель удерживается
func TestTargetTracker_IdleStreakResetsOnRecovery(t *testing.T) {
	tracker, _ := newTestTracker()
	tracker.Adopt(100)

	for tick := 1; tick <= 3; tick++ {
		if obs := tracker.Observe(alive(1.0), noCompetitor()); obs.Evicted {
			t.Fatalf("tick %d: unexpected eviction", tick)
		}
	}

	obs := tracker.Observe(alive(15.0), noCompetitor())
	if obs.Evicted {
		t.Fatal("unexpected eviction after CPU recovery")
	}
	if obs.IdleStreak != 0 {
		t.Errorf("IdleStreak = %d, want 0 after recovery", obs.IdleStreak)
	}
	if !tracker.HasTarget() {
		t.Error("expected target to still be held")
	}
}

func TestTargetTracker_HighCompetitionEvicts(t *testing.T) {
	tracker, _ := newTestTracker()
	tracker.Adopt(100)

	tests := []struct {
		name       string
		competitor CompetitorSample
		wantEvict  bool
	}{
		{
			name:       "competitor above margin",
			competitor: CompetitorSample{PID: 200, CPU: 50.1, OK: true},
			wantEvict:  true,
		},
		{
			name:       "competitor exactly at margin",
			competitor: CompetitorSample{PID: 200, CPU: 50.0, OK: true},
			wantEvict:  false,
		},
		{
			name:       "competitor is the held process",
			competitor: CompetitorSample{PID: 100, CPU: 90.0, OK: true},
			wantEvict:  false,
		},
		{
			name:       "no competitor sample",
			competitor: CompetitorSample{},
			wantEvict:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker.Release()
			tracker.Adopt(100)

			obs := tracker.Observe(alive(20.0), tt.competitor)
			if obs.Evicted != tt.wantEvict {
				t.Errorf("Evicted = %v, want %v", obs.Evicted, tt.wantEvict)
			}
			if tt.wantEvict && (len(obs.Reasons) != 1 || obs.Reasons[0] != ReasonHighCompetition) {
				t.Errorf("Reasons = %v, want [high_competition]", obs.Reasons)
			}
		})
	}
}

// Вытеснение по сроку: только долгое удержание И слабый CPU вместе
func TestTargetTracker_StaleHoldRequiresBothConditions(t *testing.T) {
	tests := []struct {
		name      string
		holdFor   time.Duration
		cpu       float64
		wantEvict bool
	}{
		{name: "long hold and weak cpu", holdFor: 11 * time.Second, cpu: 3.0, wantEvict: true},
		{name: "long hold but strong cpu", holdFor: 11 * time.Second, cpu: 20.0, wantEvict: false},
		{name: "weak cpu but short hold", holdFor: 5 * time.Second, cpu: 3.0, wantEvict: false},
		{name: "hold exactly at the limit", holdFor: 10 * time.Second, cpu: 3.0, wantEvict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, now := newTestTracker()
			tracker.Adopt(100)

			*now = now.Add(tt.holdFor)

			obs := tracker.Observe(alive(tt.cpu), noCompetitor())
			if obs.Evicted != tt.wantEvict {
				t.Errorf("Evicted = %v, want %v", obs.Evicted, tt.wantEvict)
			}
			if tt.wantEvict {
				found := false
				for _, r := range obs.Reasons {
					if r == ReasonStaleHold {
						found = true
					}
				}
				if !found {
					t.Errorf("Reasons = %v, want stale_hold present", obs.Reasons)
				}
			}
		})
	}
}

// Сработавшие одновременно причины сообщаются вместе
func TestTargetTracker_MultipleReasonsReportedTogether(t *testing.T) {
	tracker, now := newTestTracker()
	tracker.Adopt(100)

	for tick := 1; tick <= 3; tick++ {
		if obs := tracker.Observe(alive(1.0), noCompetitor()); obs.Evicted {
			t.Fatalf("tick %d: unexpected eviction", tick)
		}
	}

	*now = now.Add(11 * time.Second)

	obs := tracker.Observe(alive(1.0), CompetitorSample{PID: 200, CPU: 80.0, OK: true})
	if !obs.Evicted {
		t.Fatal("expected eviction")
	}
	if len(obs.Reasons) != 3 {
		t.Fatalf("Reasons = %v, want all three", obs.Reasons)
	}
	if obs.Reasons[0] != ReasonSustainedIdle || obs.Reasons[1] != ReasonHighCompetition || obs.Reasons[2] != ReasonStaleHold {
		t.Errorf("Reasons = %v, want fixed order idle, competition, stale", obs.Reasons)
	}
}

func TestTargetTracker_ObserveWithoutTargetIsNoop(t *testing.T) {
	tracker, _ := newTestTracker()

	obs := tracker.Observe(alive(50.0), noCompetitor())
	if obs.Evicted || len(obs.Reasons) != 0 {
		t.Errorf("Observe() without target = %+v, want empty observation", obs)
	}
}
