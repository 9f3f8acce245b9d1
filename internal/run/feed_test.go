package run

import (
	"testing"
	"time"
)

func TestFeedAppendsInArrivalOrder(t *testing.T) {
	feed := NewFeed()
	feed.Append(Thought{ID: "t-1", ParticipantID: "a", Content: "first"})
	feed.Append(Thought{ID: "t-2", ParticipantID: "b", Content: "second"})
	feed.Append(Thought{ID: "t-3", ParticipantID: "a", Content: "third"})

	thoughts := feed.Thoughts()
	if len(thoughts) != 3 {
		t.Fatalf("expected 3 thoughts, got %d", len(thoughts))
	}
	for i, id := range []string{"t-1", "t-2", "t-3"} {
		if thoughts[i].ID != id {
			t.Fatalf("expected thought %d to be %s, got %s", i, id, thoughts[i].ID)
		}
	}
}

func TestFeedReplaceKeepsPosition(t *testing.T) {
	feed := NewFeed()
	feed.Append(Thought{ID: "t-1", ParticipantID: "a", Content: "draft"})
	feed.Append(Thought{ID: "t-2", ParticipantID: "b", Content: "other"})

	if !feed.Replace(Thought{ID: "t-1", ParticipantID: "a", Content: "final"}) {
		t.Fatalf("expected replace of known id to succeed")
	}
	thoughts := feed.Thoughts()
	if thoughts[0].Content != "final" {
		t.Fatalf("expected in-place replacement, got %q", thoughts[0].Content)
	}
	if thoughts[0].ID != "t-1" || thoughts[1].ID != "t-2" {
		t.Fatalf("expected order preserved, got %s then %s", thoughts[0].ID, thoughts[1].ID)
	}
}

func TestFeedReplaceUnknownIDIsDropped(t *testing.T) {
	feed := NewFeed()
	feed.Append(Thought{ID: "t-1", ParticipantID: "a"})
	if feed.Replace(Thought{ID: "missing", ParticipantID: "a"}) {
		t.Fatalf("expected replace of unknown id to be dropped")
	}
	if feed.Len() != 1 {
		t.Fatalf("expected sequence untouched, got %d entries", feed.Len())
	}
}

func TestFinalizedThoughtSupersedesStreamingIndicator(t *testing.T) {
	feed := NewFeed()
	feed.Stream(StreamingIndicator{ParticipantID: "a", Content: "typ"})
	feed.Append(Thought{ID: "t-1", ParticipantID: "a", Content: "typed it all"})

	if _, ok := feed.StreamingFor("a"); ok {
		t.Fatalf("expected streaming indicator cleared by finalized thought")
	}
	visible := feed.Visible()
	if len(visible.Pending) != 0 {
		t.Fatalf("expected no pending block, got %d entries", len(visible.Pending))
	}
}

func TestStreamingUpsertOverwrites(t *testing.T) {
	feed := NewFeed()
	feed.Stream(StreamingIndicator{ParticipantID: "a", Content: "par", UpdatedAt: time.Unix(1, 0)})
	feed.Stream(StreamingIndicator{ParticipantID: "a", Content: "partial", UpdatedAt: time.Unix(2, 0)})

	indicator, ok := feed.StreamingFor("a")
	if !ok {
		t.Fatalf("expected indicator for participant a")
	}
	if indicator.Content != "partial" {
		t.Fatalf("expected latest partial content, got %q", indicator.Content)
	}
	if len(feed.Visible().Pending) != 1 {
		t.Fatalf("expected a single pending entry, got %d", len(feed.Visible().Pending))
	}
}

func TestIndicatorAttachesOnlyToLatestFinalizedEntry(t *testing.T) {
	feed := NewFeed()
	feed.Append(Thought{ID: "t-1", ParticipantID: "a", Content: "first"})
	feed.Append(Thought{ID: "t-2", ParticipantID: "b", Content: "interleaved"})
	feed.Append(Thought{ID: "t-3", ParticipantID: "a", Content: "second"})
	feed.Stream(StreamingIndicator{ParticipantID: "a", Content: "more coming"})

	visible := feed.Visible()
	attachments := 0
	for i, entry := range visible.Entries {
		if entry.Streaming != nil {
			attachments++
			if entry.Thought.ID != "t-3" {
				t.Fatalf("expected indicator on latest entry t-3, got %s at %d", entry.Thought.ID, i)
			}
		}
	}
	if attachments != 1 {
		t.Fatalf("expected exactly one streaming attachment, got %d", attachments)
	}
	if len(visible.Pending) != 0 {
		t.Fatalf("participant with finalized thoughts must not appear in pending block")
	}
}

func TestPendingBlockOrderedByFirstSeen(t *testing.T) {
	feed := NewFeed()
	feed.Stream(StreamingIndicator{ParticipantID: "b", Content: "b0"})
	feed.Stream(StreamingIndicator{ParticipantID: "a", Content: "a0"})
	feed.Stream(StreamingIndicator{ParticipantID: "b", Content: "b1"})

	pending := feed.Visible().Pending
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending participants, got %d", len(pending))
	}
	if pending[0].ParticipantID != "b" || pending[1].ParticipantID != "a" {
		t.Fatalf("expected first-seen order b then a, got %s then %s", pending[0].ParticipantID, pending[1].ParticipantID)
	}
	if pending[0].Content != "b1" {
		t.Fatalf("expected latest content for b, got %q", pending[0].Content)
	}
}
