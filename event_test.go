package eventfinder

import "testing"

func TestNewEventID(t *testing.T) {
	t.Parallel()

	link := "https://example.com/jazz"
	other := "https://example.com/blues"

	a := NewEventID("Jazz Night", &link, "Sat, Dec 7")
	if b := NewEventID("Jazz Night", &link, "Sat, Dec 7"); a != b {
		t.Errorf("same content got ids %s and %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("id %q has length %d, want 32", a, len(a))
	}

	different := []EventID{
		NewEventID("Jazz Night", &other, "Sat, Dec 7"),
		NewEventID("Jazz Night", nil, "Sat, Dec 7"),
		NewEventID("Jazz Night", &link, "Sun, Dec 8"),
		NewEventID("Jazz Nigh", &link, "tSat, Dec 7"),
	}
	for i, id := range different {
		if id == a {
			t.Errorf("case %d: got the same id for different content", i)
		}
	}
}
