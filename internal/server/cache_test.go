package server

import (
	"testing"
	"time"
)

func entry(n int) *encoded {
	return &encoded{data: make([]byte, n)}
}

func TestAvatarCache(t *testing.T) {
	t.Run("予算内だけ保存するのだ", func(t *testing.T) {
		c := newAvatarCache(time.Minute, 10)
		if !c.put("a", entry(6)) {
			t.Fatal("first put rejected")
		}
		if c.put("b", entry(6)) {
			t.Error("put over budget accepted")
		}
		if c.len() != 1 || c.bytes() != 6 {
			t.Errorf("len=%d bytes=%d", c.len(), c.bytes())
		}
		if _, ok := c.get("b"); ok {
			t.Error("rejected entry is readable")
		}
	})

	t.Run("同じキーの上書きは差し替えとして数えるのだ", func(t *testing.T) {
		c := newAvatarCache(time.Minute, 10)
		c.put("a", entry(6))
		if !c.put("a", entry(8)) {
			t.Fatal("replacement rejected")
		}
		if c.bytes() != 8 {
			t.Errorf("bytes = %d, want 8", c.bytes())
		}
		if e, ok := c.get("a"); !ok || len(e.data) != 8 {
			t.Error("replacement not stored")
		}
	})

	t.Run("予算より大きい画像は保存しないのだ", func(t *testing.T) {
		c := newAvatarCache(time.Minute, 4)
		if c.put("a", entry(5)) {
			t.Error("oversized entry accepted")
		}
		if c.bytes() != 0 {
			t.Errorf("bytes = %d", c.bytes())
		}
	})

	t.Run("期限切れの分は予算に戻るのだ", func(t *testing.T) {
		c := newAvatarCache(10*time.Millisecond, 10)
		c.put("a", entry(8))
		time.Sleep(30 * time.Millisecond)
		if !c.put("b", entry(8)) {
			t.Fatal("put after expiry rejected")
		}
		if c.bytes() != 8 {
			t.Errorf("bytes = %d, want 8", c.bytes())
		}
	})

	t.Run("TTL か容量が 0 なら無効なのだ", func(t *testing.T) {
		for _, c := range []*avatarCache{newAvatarCache(0, 10), newAvatarCache(time.Minute, 0)} {
			if c.put("a", entry(1)) {
				t.Error("disabled cache accepted entry")
			}
			if _, ok := c.get("a"); ok || c.len() != 0 {
				t.Error("disabled cache returned entry")
			}
		}
	})
}
