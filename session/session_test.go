package session

import (
	"context"
	"testing"
	"time"

	"github.com/go-test/deep"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/findrandomevents/eventfinder"
	"github.com/findrandomevents/eventfinder/geojson"
)

func event(title string) eventfinder.Event {
	return eventfinder.Event{
		ID:    eventfinder.NewEventID(title, nil, eventfinder.NoDate),
		Title: title,
		Date:  eventfinder.EventDate{When: eventfinder.NoDate},
	}
}

func TestLatestSearchWins(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Hour).Create()

	parisCtx, paris := s.Begin(context.Background())
	_, tokyo := s.Begin(context.Background())

	if parisCtx.Err() == nil {
		t.Fatal("starting a second search didn't cancel the first")
	}

	if !s.Apply(tokyo, "Tokyo", []eventfinder.Event{event("Sumo")}) {
		t.Fatal("Apply(latest) = false, want true")
	}
	s.Finish(tokyo)

	// Paris comes back late
	if s.Apply(paris, "Paris", []eventfinder.Event{event("Louvre Late")}) {
		t.Fatal("Apply(stale) = true, want false")
	}
	s.Finish(paris)

	query, events := s.Events()
	if query != "Tokyo" || len(events) != 1 || events[0].Title != "Sumo" {
		t.Fatalf("list = %q %+v, want Tokyo results", query, events)
	}
}

func TestFinishCancels(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Hour).Create()
	ctx, seq := s.Begin(context.Background())
	s.Finish(seq)
	if ctx.Err() == nil {
		t.Fatal("Finish didn't release the search context")
	}
}

func TestFavorites(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Hour).Create()
	a, b, c := event("a"), event("b"), event("c")
	_, seq := s.Begin(context.Background())
	s.Apply(seq, "Paris", []eventfinder.Event{a, b, c})
	s.Finish(seq)

	if !s.AddFavorite(c.ID) || !s.AddFavorite(a.ID) {
		t.Fatal("AddFavorite of listed events failed")
	}
	if s.AddFavorite("unknown") {
		t.Fatal("AddFavorite of an unknown event succeeded")
	}
	if !s.AddFavorite(a.ID) {
		t.Fatal("adding a favorite twice failed")
	}

	if diff := deep.Equal(s.Favorites(), []eventfinder.Event{c, a}); diff != nil {
		t.Fatalf("favorites: %v", diff)
	}

	// Toggle twice returns to the start
	if fav, ok := s.ToggleFavorite(b.ID); !ok || !fav {
		t.Fatalf("toggle on = %v %v, want true true", fav, ok)
	}
	if fav, ok := s.ToggleFavorite(b.ID); !ok || fav {
		t.Fatalf("toggle off = %v %v, want false true", fav, ok)
	}
	if s.IsFavorite(b.ID) {
		t.Fatal("b is still a favorite")
	}

	// Favorites survive a new search and stay viewable
	_, seq = s.Begin(context.Background())
	s.Apply(seq, "Tokyo", []eventfinder.Event{event("x")})
	s.Finish(seq)

	if got, ok := s.Event(c.ID); !ok || got.Title != "c" {
		t.Fatalf("Event(favorite) = %+v %v, want c", got, ok)
	}
	if _, ok := s.Event(b.ID); ok {
		t.Fatal("Event found b, which is neither listed nor a favorite")
	}
	if !s.RemoveFavorite(c.ID) || s.RemoveFavorite(c.ID) {
		t.Fatal("RemoveFavorite didn't report membership")
	}
}

func TestLocality(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Hour).Create()
	here := geojson.Point{Lat: 53.3498, Lng: -6.2603}

	if _, ok := s.Locality(here, 5); ok {
		t.Fatal("Locality before anything was resolved")
	}

	s.SetLocality(here, "Dublin")
	if got, ok := s.Locality(geojson.Point{Lat: here.Lat + 0.00001, Lng: here.Lng}, 5); !ok || got != "Dublin" {
		t.Fatalf("Locality(1m away) = %q %v, want Dublin", got, ok)
	}
	if _, ok := s.Locality(geojson.Point{Lat: here.Lat + 0.001, Lng: here.Lng}, 5); ok {
		t.Fatal("Locality(100m away) reused the old locality")
	}
}

func TestExpire(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	st := NewStore(time.Hour)
	st.Now = func() time.Time { return now }

	idle := st.Create()
	active := st.Create()
	ctx, _ := idle.Begin(context.Background())

	now = now.Add(50 * time.Minute)
	st.Get(active.ID)

	now = now.Add(20 * time.Minute)
	if n := st.Expire(); n != 1 {
		t.Fatalf("Expire() = %d, want 1", n)
	}
	if _, ok := st.Get(idle.ID); ok {
		t.Fatal("idle session survived")
	}
	if _, ok := st.Get(active.ID); !ok {
		t.Fatal("active session was expired")
	}
	if ctx.Err() == nil {
		t.Fatal("expiring a session didn't cancel its search")
	}
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	st := NewStore(0)
	s := st.Create()
	if !st.Delete(s.ID) {
		t.Fatal("Delete(existing) = false")
	}
	if st.Delete(s.ID) {
		t.Fatal("Delete(deleted) = true")
	}
	if st.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", st.Len())
	}
}

func TestExpiryJob(t *testing.T) {
	t.Parallel()

	st := NewStore(time.Hour)
	if err := st.StartExpiry("not a schedule", zap.NewNop()); err == nil {
		t.Fatal("StartExpiry accepted a bad schedule")
	}
	if err := st.StartExpiry("@every 1h", zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	st.StopExpiry()
	st.StopExpiry() // idempotent
}

func TestGetRacingExpire(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	late := start.Add(2 * time.Hour)

	for i := 0; i < 200; i++ {
		st := NewStore(time.Hour)
		st.Now = func() time.Time { return start }
		s := st.Create()
		st.Now = func() time.Time { return late }

		got := make(chan bool, 1)
		go func() {
			_, ok := st.Get(s.ID)
			got <- ok
		}()
		st.Expire()

		if <-got {
			if _, ok := st.Get(s.ID); !ok {
				t.Fatalf("iteration %d: Get returned a session that Expire then dropped", i)
			}
		}
	}
}

func TestExpiryRestart(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	st := NewStore(time.Hour)
	if err := st.StartExpiry("@every 1h", logger); err != nil {
		t.Fatal(err)
	}
	if err := st.StartExpiry("@every 30m", logger); err != nil {
		t.Fatal(err)
	}
	st.StopExpiry()

	// Both schedulers must have stopped.
	deadline := time.Now().Add(2 * time.Second)
	for logs.FilterMessage("stop").Len() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("got %d scheduler stops, want 2", logs.FilterMessage("stop").Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
