package models

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if got := DeriveStatus(nil, now); got != ArticleStatusDraft {
		t.Errorf("nil publish time -> %q, want draft", got)
	}
	if got := DeriveStatus(&future, now); got != ArticleStatusScheduled {
		t.Errorf("future publish time -> %q, want scheduled", got)
	}
	if got := DeriveStatus(&past, now); got != ArticleStatusPublished {
		t.Errorf("past publish time -> %q, want published", got)
	}
	if got := DeriveStatus(&now, now); got != ArticleStatusPublished {
		t.Errorf("publish time == now -> %q, want published", got)
	}
}

func TestIsPubliclyVisible(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	visible := Article{Status: ArticleStatusPublished, PublishedAt: &past}
	if !visible.IsPubliclyVisible(now) {
		t.Error("published article with past publish time should be visible")
	}

	// Status says published but the clock has not reached published_at yet.
	early := Article{Status: ArticleStatusPublished, PublishedAt: &future}
	if early.IsPubliclyVisible(now) {
		t.Error("article must stay hidden until published_at passes")
	}

	// A scheduled row whose time has passed is visible without any status flip.
	due := Article{Status: ArticleStatusScheduled, PublishedAt: &past}
	if !due.IsPubliclyVisible(now) {
		t.Error("scheduled article with past publish time should be visible")
	}
	pending := Article{Status: ArticleStatusScheduled, PublishedAt: &future}
	if pending.IsPubliclyVisible(now) {
		t.Error("scheduled article must stay hidden until published_at passes")
	}

	for _, status := range []string{ArticleStatusDraft, ArticleStatusReview, ArticleStatusArchived, ArticleStatusTrashed} {
		a := Article{Status: status, PublishedAt: &past}
		if a.IsPubliclyVisible(now) {
			t.Errorf("status %q must not be publicly visible", status)
		}
	}
}

func TestUserSuspension(t *testing.T) {
	now := time.Now()
	u := User{}
	if u.IsSuspended() {
		t.Error("fresh user should not be suspended")
	}
	u.BannedAt = &now
	if !u.IsSuspended() {
		t.Error("banned user should be suspended")
	}
	u = User{BlockedAt: &now}
	if !u.IsSuspended() {
		t.Error("blocked user should be suspended")
	}
}

func TestNewsletterSubscriberIsActive(t *testing.T) {
	now := time.Now()
	pending := NewsletterSubscriber{}
	if pending.IsActive() {
		t.Error("unverified subscriber must not be active")
	}
	active := NewsletterSubscriber{IsVerified: true}
	if !active.IsActive() {
		t.Error("verified subscriber should be active")
	}
	out := NewsletterSubscriber{IsVerified: true, UnsubscribedAt: &now}
	if out.IsActive() {
		t.Error("unsubscribed subscriber must not be active")
	}
}

func TestMediaTypeFromMime(t *testing.T) {
	cases := map[string]string{
		"image/png":       MediaTypeImage,
		"video/mp4":       MediaTypeVideo,
		"application/pdf": MediaTypeDocument,
		"text/plain":      MediaTypeDocument,
		"application/zip": MediaTypeOther,
	}
	for mime, want := range cases {
		if got := MediaTypeFromMime(mime); got != want {
			t.Errorf("MediaTypeFromMime(%q) = %q, want %q", mime, got, want)
		}
	}
}
