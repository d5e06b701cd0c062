package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockOrder(t *testing.T) {
	t.Run("Order Does Not Depend On Direction", func(t *testing.T) {
		f1, s1 := lockOrder("aaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbb")
		f2, s2 := lockOrder("bbbbbbbbbbbbbbbb", "aaaaaaaaaaaaaaaa")
		assert.Equal(t, f1, f2)
		assert.Equal(t, s1, s2)
		assert.Equal(t, "aaaaaaaaaaaaaaaa", f1)
		assert.Equal(t, "bbbbbbbbbbbbbbbb", s1)
	})

	t.Run("Equal Addresses", func(t *testing.T) {
		f, s := lockOrder("cccccccccccccccc", "cccccccccccccccc")
		assert.Equal(t, f, s)
	})
}
