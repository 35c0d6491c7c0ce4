// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestNotifier(d time.Duration) (*Notifier, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(d, WithClock(clock.Now)), clock
}

func TestNotify_ReplacesCurrent(t *testing.T) {
	n, _ := newTestNotifier(4 * time.Second)

	first := n.Error("primero")
	second := n.Success("segundo")

	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, cur.ID)
	assert.Equal(t, "segundo", cur.Message)
	assert.Equal(t, KindSuccess, cur.Kind)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestNotify_Dismiss(t *testing.T) {
	n, _ := newTestNotifier(4 * time.Second)
	n.Warning("aviso")
	n.Dismiss()

	_, ok := n.Current()
	assert.False(t, ok)
}

func TestExpire_OnlyClearsMatchingID(t *testing.T) {
	n, _ := newTestNotifier(4 * time.Second)

	first := n.Error("primero")
	second := n.Error("segundo")

	assert.False(t, n.Expire(first.ID), "stale timer must not clear the successor")
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, cur.ID)

	assert.True(t, n.Expire(second.ID))
	_, ok = n.Current()
	assert.False(t, ok)
}

func TestCurrent_LazyExpiry(t *testing.T) {
	n, clock := newTestNotifier(5 * time.Second)
	note := n.Success("listo")
	assert.Equal(t, 5*time.Second, note.Duration())

	clock.Advance(4999 * time.Millisecond)
	_, ok := n.Current()
	assert.True(t, ok)

	clock.Advance(time.Millisecond)
	_, ok = n.Current()
	assert.False(t, ok)
}

func TestDurationsAreConfigurable(t *testing.T) {
	workspace, _ := newTestNotifier(4 * time.Second)
	upload, _ := newTestNotifier(5 * time.Second)

	assert.Equal(t, 4*time.Second, workspace.Notify("a", KindSuccess).Duration())
	assert.Equal(t, 5*time.Second, upload.Notify("a", KindSuccess).Duration())
}

func TestExpireCmd(t *testing.T) {
	n := New(time.Millisecond)
	note := n.Error("x")

	msg := ExpireCmd(note)()
	expired, ok := msg.(ExpiredMsg)
	require.True(t, ok)
	assert.Equal(t, note.ID, expired.ID)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "error", KindError.String())
	assert.Equal(t, "warning", KindWarning.String())
	assert.Equal(t, "success", KindSuccess.String())
}
