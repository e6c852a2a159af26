package docs

import "testing"

func TestTopics(t *testing.T) {
	topics := Topics()
	if len(topics) < 4 {
		t.Fatalf("expected embedded topics; got %v", topics)
	}
	for i, tp := range topics {
		if tp.Title == "" {
			t.Fatalf("topic %q has no title", tp.Name)
		}
		if i > 0 && topics[i-1].Name >= tp.Name {
			t.Fatalf("topics not sorted: %v", topics)
		}
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Blocks ")
	if !ok || body == "" {
		t.Fatalf("expected blocks topic")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("unknown topic should not resolve")
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("path-like topics must not resolve")
	}
}
