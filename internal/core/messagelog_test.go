package core

import (
	"fmt"
	"testing"
	"time"
)

func testMessage(i int) Message {
	return Message{
		ID:        fmt.Sprintf("msg-%d", i),
		Username:  "alice",
		Content:   fmt.Sprintf("message %d", i),
		CreatedAt: time.Now(),
		Kind:      MessageUser,
	}
}

func TestMessageLogCapTrimsOldestFirst(t *testing.T) {
	l := NewMessageLog()

	for i := 0; i < 150; i++ {
		l.Append(testMessage(i))
	}

	if l.Len() != MessageCap {
		t.Fatalf("expected %d retained messages, got %d", MessageCap, l.Len())
	}

	all := l.Recent(MessageCap)
	if all[0].ID != "msg-50" || all[len(all)-1].ID != "msg-149" {
		t.Fatalf("expected msg-50..msg-149, got %s..%s", all[0].ID, all[len(all)-1].ID)
	}
}

func TestMessageLogRecentIsOldestFirst(t *testing.T) {
	l := NewMessageLog()
	for i := 0; i < 10; i++ {
		l.Append(testMessage(i))
	}

	recent := l.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(recent))
	}
	for i, m := range recent {
		if want := fmt.Sprintf("msg-%d", 7+i); m.ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, m.ID)
		}
	}

	if got := l.Recent(100); len(got) != 10 {
		t.Fatalf("expected the whole log, got %d", len(got))
	}
}

func TestMessageLogPin(t *testing.T) {
	l := NewMessageLog()
	l.Append(testMessage(1))
	l.Append(testMessage(2))

	if _, ok := l.Pin("msg-404"); ok {
		t.Fatal("expected pin of unknown id to fail")
	}
	if _, ok := l.CurrentPin(); ok {
		t.Fatal("expected no pin after failed attempt")
	}

	pinned, ok := l.Pin("msg-1")
	if !ok || pinned.ID != "msg-1" {
		t.Fatalf("expected msg-1 pinned, got %+v ok=%v", pinned, ok)
	}

	// Pinning an unknown id leaves the current pin unchanged.
	l.Pin("msg-404")
	if cur, ok := l.CurrentPin(); !ok || cur.ID != "msg-1" {
		t.Fatalf("expected pin unchanged, got %+v ok=%v", cur, ok)
	}

	l.Unpin()
	if _, ok := l.CurrentPin(); ok {
		t.Fatal("expected no pin after unpin")
	}
}

func TestMessageLogPinGoesStaleOnEviction(t *testing.T) {
	l := NewMessageLog()
	l.Append(testMessage(0))
	if _, ok := l.Pin("msg-0"); !ok {
		t.Fatal("pin failed")
	}

	for i := 1; i <= MessageCap; i++ {
		l.Append(testMessage(i))
	}

	if _, ok := l.CurrentPin(); ok {
		t.Fatal("expected pin to read as absent after its message was evicted")
	}
}

func TestMessageLogClearResetsPin(t *testing.T) {
	l := NewMessageLog()
	l.Append(testMessage(1))
	l.Pin("msg-1")

	notice := Message{ID: "system-1", Username: SystemAuthor, Content: "Chat was cleared by admin", Kind: MessageSystem}
	got := l.Clear(notice)
	if got.ID != notice.ID {
		t.Fatalf("expected the notice back, got %+v", got)
	}

	if l.Len() != 1 {
		t.Fatalf("expected only the notice retained, got %d", l.Len())
	}
	if _, ok := l.CurrentPin(); ok {
		t.Fatal("expected pin cleared")
	}
	if _, ok := l.FindByID("msg-1"); ok {
		t.Fatal("expected old messages gone")
	}
}
