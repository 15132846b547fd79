package availability

import (
	"errors"
	"testing"
	"time"

	"podium/pkg/model"
)

var (
	now       = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	tomorrow  = now.Add(24 * time.Hour)
	yesterday = now.Add(-24 * time.Hour)

	callerA = model.Caller{ID: "caller-a", Name: "Caller A"}
	callerB = model.Caller{ID: "caller-b", Name: "Caller B"}
)

// assertUnitInvariant checks that the four locked fields are set as a
// unit or cleared as a unit, never a mix.
func assertUnitInvariant(t *testing.T, a model.Availability) {
	t.Helper()

	if a.IsAvailable {
		if a.ProgramDate != nil || a.ProgramTime != "" || a.LockedBy != "" || a.LockedAt != nil {
			t.Errorf("free state carries locked fields: %+v", a)
		}
		return
	}

	if a.ProgramDate == nil || a.ProgramTime == "" || a.LockedBy == "" || a.LockedAt == nil {
		t.Errorf("locked state has unset locked fields: %+v", a)
	}
}

func TestLock_Free(t *testing.T) {
	got, err := Lock(model.Free(), callerA, tomorrow, "10:00", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertUnitInvariant(t, got)
	if got.IsAvailable {
		t.Error("expected speaker to be locked")
	}
	if got.LockedBy != callerA.ID || got.LockedByName != callerA.Name {
		t.Errorf("expected lock held by %s, got %s", callerA.ID, got.LockedBy)
	}
	if !got.ProgramDate.Equal(tomorrow) {
		t.Errorf("expected program date %v, got %v", tomorrow, got.ProgramDate)
	}
	if got.ProgramTime != "10:00" {
		t.Errorf("expected program time 10:00, got %s", got.ProgramTime)
	}
	if !got.LockedAt.Equal(now) {
		t.Errorf("expected locked_at %v, got %v", now, got.LockedAt)
	}
}

func TestLock_MissingProgramFields(t *testing.T) {
	tests := []struct {
		name        string
		programDate time.Time
		programTime string
	}{
		{"zero date", time.Time{}, "10:00"},
		{"blank time", tomorrow, ""},
		{"whitespace time", tomorrow, "   "},
		{"both missing", time.Time{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lock(model.Free(), callerA, tt.programDate, tt.programTime, now)
			if !errors.Is(err, ErrMissingProgram) {
				t.Errorf("expected ErrMissingProgram, got %v", err)
			}
		})
	}
}

func TestLock_AlreadyLocked(t *testing.T) {
	current := model.Locked(callerA, tomorrow, "10:00", now.Add(-time.Hour))

	_, err := Lock(current, callerB, tomorrow.Add(24*time.Hour), "11:00", now)

	var lockedErr *AlreadyLockedError
	if !errors.As(err, &lockedErr) {
		t.Fatalf("expected AlreadyLockedError, got %v", err)
	}
	if lockedErr.LockedBy != callerA.ID {
		t.Errorf("expected holder %s surfaced, got %s", callerA.ID, lockedErr.LockedBy)
	}
	if lockedErr.LockedByName != callerA.Name {
		t.Errorf("expected holder name %s surfaced, got %s", callerA.Name, lockedErr.LockedByName)
	}
	if !lockedErr.ProgramDate.Equal(tomorrow) {
		t.Errorf("expected program date %v surfaced, got %v", tomorrow, lockedErr.ProgramDate)
	}
}

func TestLock_ExpiredLockIsOverwritten(t *testing.T) {
	stale := model.Locked(callerA, yesterday, "09:00", yesterday.Add(-time.Hour))

	got, err := Lock(stale, callerB, tomorrow, "11:00", now)
	if err != nil {
		t.Fatalf("expected stale lock to be reclaimed, got %v", err)
	}

	assertUnitInvariant(t, got)
	if got.LockedBy != callerB.ID {
		t.Errorf("expected new holder %s, got %s", callerB.ID, got.LockedBy)
	}
	if !got.ProgramDate.Equal(tomorrow) {
		t.Errorf("expected new program date %v, got %v", tomorrow, got.ProgramDate)
	}
}

func TestLock_ProgramDateEqualToNowNotElapsed(t *testing.T) {
	current := model.Locked(callerA, now, "12:00", now.Add(-time.Hour))

	_, err := Lock(current, callerB, tomorrow, "11:00", now)

	var lockedErr *AlreadyLockedError
	if !errors.As(err, &lockedErr) {
		t.Fatalf("a program date equal to now must not count as elapsed, got %v", err)
	}
}

func TestRelease(t *testing.T) {
	locked := model.Locked(callerA, tomorrow, "10:00", now)

	got := Release(locked)
	assertUnitInvariant(t, got)
	if !got.IsAvailable {
		t.Error("expected released speaker to be free")
	}

	// Idempotent: releasing again yields the identical state.
	again := Release(got)
	if again != got {
		t.Errorf("second release changed state: %+v vs %+v", again, got)
	}
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name     string
		state    model.Availability
		expected bool
	}{
		{"free", model.Free(), true},
		{"locked for future program", model.Locked(callerA, tomorrow, "10:00", now), false},
		{"locked for elapsed program", model.Locked(callerA, yesterday, "10:00", yesterday), true},
		{"locked for program today", model.Locked(callerA, now, "12:00", now), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Available(tt.state, now); got != tt.expected {
				t.Errorf("Available() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAvailable_DoesNotMutate(t *testing.T) {
	stale := model.Locked(callerA, yesterday, "10:00", yesterday)
	before := stale

	if !Available(stale, now) {
		t.Fatal("expected stale lock to read as available")
	}
	if stale != before {
		t.Errorf("Available mutated its input: %+v vs %+v", stale, before)
	}
}
